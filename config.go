package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Window size constants
const (
	defaultWidth  = 1200
	defaultHeight = 900
	minWidth      = 400
	minHeight     = 300
)

// Sort method constants
const (
	SortNatural    = 0 // Natural sort order (e.g., page1, page2, page10)
	SortSimple     = 1 // Simple string sort (lexicographical)
	SortEntryOrder = 2 // Maintain archive order (no sort)
)

// validateKeybindings checks key names and rejects a key bound to two actions
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			if existingAction, exists := keyToAction[keyStr]; exists && existingAction != action {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	if keyStr == "" {
		return fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for i := 0; i < len(parts)-1; i++ {
		modifier := strings.ToLower(parts[i])
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}

	return nil
}

// getValidKeyNames returns the set of key names a binding may use
func getValidKeyNames() map[string]bool {
	valid := make(map[string]bool)
	for name := range getKeyMapping() {
		valid[name] = true
	}
	return valid
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "Default", "OK", "Warning", "Error"
}

type Config struct {
	WindowWidth    int     `json:"window_width"`
	WindowHeight   int     `json:"window_height"`
	Fullscreen     bool    `json:"fullscreen"`
	RightToLeft    bool    `json:"right_to_left"`
	HelpFontSize   float64 `json:"help_font_size"`
	SidebarVisible bool    `json:"sidebar_visible"`

	DefaultViewMode string          `json:"default_view_mode"`
	ImageAdjustment ImageAdjustment `json:"image_adjustment"`

	// Vertical mode tuning
	ScrollPreDelayMs    int     `json:"scroll_pre_delay_ms"`
	ScrollSettleMs      int     `json:"scroll_settle_ms"`
	VisibilityThreshold float64 `json:"visibility_threshold"`
	VisibilityMargin    float64 `json:"visibility_margin"`
	VirtualWindowRadius int     `json:"virtual_window_radius"`
	ScrollStep          float64 `json:"scroll_step"`

	CacheSize      int  `json:"cache_size"`
	PreloadEnabled bool `json:"preload_enabled"`
	PreloadCount   int  `json:"preload_count"`
	SortMethod     int  `json:"sort_method"`

	ServerURL      string `json:"server_url"`
	RequestTimeout int    `json:"request_timeout_ms"`
	DBPath         string `json:"db_path"`

	Keybindings   map[string][]string `json:"keybindings"`
	Mousebindings map[string][]string `json:"mousebindings"`
	MouseSettings MouseSettings       `json:"mouse_settings"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() Config {
	return Config{
		WindowWidth:         defaultWidth,
		WindowHeight:        defaultHeight,
		HelpFontSize:        20.0,
		DefaultViewMode:     ViewSingle.String(),
		ImageAdjustment:     DefaultImageAdjustment(),
		ScrollPreDelayMs:    int(defaultScrollPreDelay.Milliseconds()),
		ScrollSettleMs:      int(defaultScrollSettle.Milliseconds()),
		VisibilityThreshold: defaultVisibilityThreshold,
		VisibilityMargin:    defaultVisibilityMargin,
		VirtualWindowRadius: defaultVirtualRadius,
		ScrollStep:          80,
		CacheSize:           32,
		PreloadEnabled:      true,
		PreloadCount:        4,
		SortMethod:          SortNatural,
		ServerURL:           defaultServerURL,
		RequestTimeout:      10000,
		DBPath:              defaultDBPath(),
		Keybindings:         GetDefaultKeybindings(),
		Mousebindings:       GetDefaultMousebindings(),
		MouseSettings:       GetDefaultMouseSettings(),
	}
}

func getConfigPath() string {
	if p := os.Getenv("KUBRICK_CONFIG"); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "kubrick.json"
	}
	return filepath.Join(homeDir, ".kubrick.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := DefaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	validateConfig(&config, &result)

	result.Config = config
	return result
}

// validateConfig clamps or resets every out of range field
func validateConfig(config *Config, result *ConfigLoadResult) {
	defaults := DefaultConfig()

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// Validate help font size (minimum 12px for readability)
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = defaults.HelpFontSize
	}

	if _, ok := ParseViewMode(config.DefaultViewMode); !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown view mode %q", config.DefaultViewMode))
		result.Status = "Warning"
		config.DefaultViewMode = defaults.DefaultViewMode
	}
	config.ImageAdjustment = config.ImageAdjustment.Clamped()

	if config.ScrollPreDelayMs < 0 || config.ScrollPreDelayMs > 1000 {
		config.ScrollPreDelayMs = defaults.ScrollPreDelayMs
	}
	if config.ScrollSettleMs < 0 || config.ScrollSettleMs > 5000 {
		config.ScrollSettleMs = defaults.ScrollSettleMs
	}
	if config.VisibilityThreshold <= 0 || config.VisibilityThreshold > 1 {
		config.VisibilityThreshold = defaults.VisibilityThreshold
	}
	if config.VisibilityMargin < 0 {
		config.VisibilityMargin = defaults.VisibilityMargin
	}
	if config.VirtualWindowRadius < 1 {
		config.VirtualWindowRadius = defaults.VirtualWindowRadius
	} else if config.VirtualWindowRadius > 20 {
		config.VirtualWindowRadius = 20
	}
	if config.ScrollStep <= 0 {
		config.ScrollStep = defaults.ScrollStep
	}

	// Validate cache size (minimum 4, maximum 128)
	if config.CacheSize < 4 {
		config.CacheSize = defaults.CacheSize
	} else if config.CacheSize > 128 {
		config.CacheSize = 128
	}

	// Validate preload count (minimum 1, maximum 16)
	if config.PreloadCount < 1 {
		config.PreloadCount = defaults.PreloadCount
	} else if config.PreloadCount > 16 {
		config.PreloadCount = 16
	}

	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		config.SortMethod = SortNatural
	}

	if strings.TrimSpace(config.ServerURL) == "" {
		config.ServerURL = defaults.ServerURL
	}
	if config.RequestTimeout < 100 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	if config.DBPath == "" {
		config.DBPath = defaults.DBPath
	}

	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = defaults.MouseSettings.WheelSensitivity
	}
	if config.MouseSettings.DoubleClickTime <= 0 {
		config.MouseSettings.DoubleClickTime = defaults.MouseSettings.DoubleClickTime
	}

	// Fill in missing bindings with defaults, then validate the result
	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		for action, keys := range defaults.Keybindings {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = keys
			}
		}
		if err := validateKeybindings(config.Keybindings); err != nil {
			log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = GetDefaultKeybindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		for action, buttons := range defaults.Mousebindings {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = buttons
			}
		}
	}
}

// getSortMethodName returns the human-readable name of a sort method
func getSortMethodName(sortMethod int) string {
	return GetSortStrategy(sortMethod).Name()
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		log.Printf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Printf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		log.Printf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
