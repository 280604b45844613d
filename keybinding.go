package main

import (
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key   ebiten.Key
	Shift bool
	Ctrl  bool
	Alt   bool
}

// KeybindingManager maps key presses onto named actions. Bindings are
// parsed once when installed.
type KeybindingManager struct {
	keybindings map[string][]string
	parsed      map[string][]KeyCombination
}

// NewKeybindingManager creates a manager for the given action -> keys map
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{}
	km.UpdateKeybindings(keybindings)
	return km
}

// getKeyMapping returns a mapping from string keys to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	keys := map[string]ebiten.Key{
		// Special keys
		"Space":      ebiten.KeySpace,
		"Backspace":  ebiten.KeyBackspace,
		"Enter":      ebiten.KeyEnter,
		"Escape":     ebiten.KeyEscape,
		"Tab":        ebiten.KeyTab,
		"Home":       ebiten.KeyHome,
		"End":        ebiten.KeyEnd,
		"PageUp":     ebiten.KeyPageUp,
		"PageDown":   ebiten.KeyPageDown,
		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,

		// Punctuation
		"Comma":        ebiten.KeyComma,
		"Period":       ebiten.KeyPeriod,
		"Slash":        ebiten.KeySlash,
		"Semicolon":    ebiten.KeySemicolon,
		"Quote":        ebiten.KeyQuote,
		"Minus":        ebiten.KeyMinus,
		"Equal":        ebiten.KeyEqual,
		"BracketLeft":  ebiten.KeyBracketLeft,
		"BracketRight": ebiten.KeyBracketRight,
		"Backquote":    ebiten.KeyBackquote,

		"NumpadEnter":    ebiten.KeyNumpadEnter,
		"NumpadAdd":      ebiten.KeyNumpadAdd,
		"NumpadSubtract": ebiten.KeyNumpadSubtract,
	}

	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
		ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
		ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
		ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	for i, key := range letters {
		keys["Key"+string(rune('A'+i))] = key
	}

	// Digits and numpad digits are contiguous in ebiten's key order
	for i := 0; i < 10; i++ {
		d := string(rune('0' + i))
		keys["Key"+d] = ebiten.Key0 + ebiten.Key(i)
		keys["Numpad"+d] = ebiten.KeyNumpad0 + ebiten.Key(i)
	}
	return keys
}

// parseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func parseKeyString(keyStr string, keyMapping map[string]ebiten.Key) (KeyCombination, bool) {
	if keyStr == "" {
		return KeyCombination{}, false
	}
	parts := strings.Split(keyStr, "+")

	var combination KeyCombination
	key, exists := keyMapping[parts[len(parts)-1]]
	if !exists {
		return KeyCombination{}, false
	}
	combination.Key = key

	for _, modifier := range parts[:len(parts)-1] {
		switch strings.ToLower(modifier) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return KeyCombination{}, false
		}
	}

	return combination, true
}

// modifiersMatch checks that exactly the wanted modifiers are held
func modifiersMatch(shift, ctrl, alt bool) bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift) == shift &&
		ebiten.IsKeyPressed(ebiten.KeyControl) == ctrl &&
		ebiten.IsKeyPressed(ebiten.KeyAlt) == alt
}

// isKeyPressed checks if a key combination was pressed this frame
func isKeyPressed(combination KeyCombination) bool {
	return inpututil.IsKeyJustPressed(combination.Key) &&
		modifiersMatch(combination.Shift, combination.Ctrl, combination.Alt)
}

// Held keys repeat after keyRepeatDelay ticks, every keyRepeatInterval ticks
const (
	keyRepeatDelay    = 24
	keyRepeatInterval = 4
)

// isKeyRepeated is isKeyPressed that also fires while the key is held down
func isKeyRepeated(combination KeyCombination) bool {
	d := inpututil.KeyPressDuration(combination.Key)
	if d == 0 || !modifiersMatch(combination.Shift, combination.Ctrl, combination.Alt) {
		return false
	}
	return d == 1 || (d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0)
}

// CheckAction checks if any keybinding for the given action is pressed
func (km *KeybindingManager) CheckAction(action string) bool {
	for _, combination := range km.parsed[action] {
		if isKeyPressed(combination) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (km *KeybindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !km.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// ExecuteRepeatingAction is ExecuteAction for actions that repeat while held
func (km *KeybindingManager) ExecuteRepeatingAction(action string, inputActions InputActions, inputState InputState) bool {
	for _, combination := range km.parsed[action] {
		if isKeyRepeated(combination) {
			return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
		}
	}
	return false
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// UpdateKeybindings installs a new binding map. Unparseable keys are
// skipped with a warning.
func (km *KeybindingManager) UpdateKeybindings(keybindings map[string][]string) {
	keyMapping := getKeyMapping()
	km.keybindings = keybindings
	km.parsed = make(map[string][]KeyCombination, len(keybindings))
	for action, keys := range keybindings {
		for _, keyStr := range keys {
			combination, ok := parseKeyString(keyStr, keyMapping)
			if !ok {
				log.Printf("Warning: Ignoring invalid key '%s' for action '%s'", keyStr, action)
				continue
			}
			km.parsed[action] = append(km.parsed[action], combination)
		}
	}
}
