package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// Brightness, sharpen and denoise change by this much per key press
const adjustmentStep = 10

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"Escape"}, []string{}, "Leave the reader"},
	{"help", []string{"Shift+Slash"}, []string{}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide info display"},
	{"fullscreen", []string{"Enter"}, []string{}, "Toggle fullscreen"},

	// Navigation (next/previous do nothing in vertical mode)
	{"next", []string{"ArrowRight"}, []string{"Forward"}, "Next page (or spread in double mode)"},
	{"previous", []string{"ArrowLeft"}, []string{"Back"}, "Previous page (or spread in double mode)"},
	{"jump_first", []string{"Home"}, []string{}, "Jump to first page"},
	{"jump_last", []string{"End"}, []string{}, "Jump to last page"},
	{"scroll_up", []string{"ArrowUp"}, []string{}, "Scroll up (vertical mode)"},
	{"scroll_down", []string{"ArrowDown"}, []string{}, "Scroll down (vertical mode)"},

	// View modes
	{"mode_single", []string{"Key1"}, []string{}, "Single page view"},
	{"mode_double", []string{"Key2"}, []string{}, "Double page view"},
	{"mode_vertical", []string{"Key3"}, []string{}, "Vertical scroll view"},
	{"toggle_sidebar", []string{"KeyS"}, []string{}, "Show/hide page sidebar"},
	{"toggle_reading_direction", []string{"Shift+KeyD"}, []string{}, "Toggle spread direction (LTR / RTL)"},

	// Zoom and magnifier
	{"zoom_in", []string{"Equal", "Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"zoom_reset", []string{"Key0"}, []string{"Shift+MiddleClick"}, "Reset to 100% zoom"},
	{"toggle_magnifier", []string{"KeyM"}, []string{"MiddleClick"}, "Toggle magnifier loupe"},

	// Annotations
	{"toggle_favorite", []string{"KeyF"}, []string{}, "Favorite/unfavorite current page"},
	{"edit_note", []string{"KeyN"}, []string{}, "Edit note of current page"},

	// Image adjustment
	{"brightness_up", []string{"Period"}, []string{}, "Increase brightness"},
	{"brightness_down", []string{"Comma"}, []string{}, "Decrease brightness"},
	{"contrast_up", []string{"Shift+KeyC"}, []string{}, "Increase contrast"},
	{"contrast_down", []string{"KeyC"}, []string{}, "Decrease contrast"},
	{"saturation_up", []string{"Shift+KeyV"}, []string{}, "Increase saturation"},
	{"saturation_down", []string{"KeyV"}, []string{}, "Decrease saturation"},
	{"sharpen_up", []string{"Shift+Period"}, []string{}, "Increase sharpening"},
	{"sharpen_down", []string{"Shift+Comma"}, []string{}, "Decrease sharpening"},
	{"denoise_up", []string{"Quote"}, []string{}, "Increase denoise"},
	{"denoise_down", []string{"Semicolon"}, []string{}, "Decrease denoise"},
	{"toggle_blue_light", []string{"KeyB"}, []string{}, "Toggle blue light filter"},
	{"reset_adjustments", []string{"KeyR"}, []string{}, "Reset image adjustments"},
}

// ActionExecutor is the single place actions are dispatched, shared by
// the keyboard and mouse binding managers
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs action and reports whether it was handled
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	vertical := inputState.GetViewMode() == ViewVertical

	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "fullscreen":
		inputActions.ToggleFullscreen()

	case "next":
		if vertical {
			return false
		}
		inputActions.NavigateNext()
	case "previous":
		if vertical {
			return false
		}
		inputActions.NavigatePrevious()
	case "jump_first":
		inputActions.JumpToPage(0)
	case "jump_last":
		totalPages := inputActions.GetTotalPagesCount()
		if totalPages > 0 {
			inputActions.JumpToPage(totalPages - 1)
		}
	case "scroll_up":
		if !vertical {
			return false
		}
		inputActions.ScrollBy(-1)
	case "scroll_down":
		if !vertical {
			return false
		}
		inputActions.ScrollBy(1)

	case "mode_single":
		inputActions.SetViewMode(ViewSingle)
	case "mode_double":
		inputActions.SetViewMode(ViewDouble)
	case "mode_vertical":
		inputActions.SetViewMode(ViewVertical)
	case "toggle_sidebar":
		inputActions.ToggleSidebar()
	case "toggle_reading_direction":
		inputActions.ToggleReadingDirection()

	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_reset":
		inputActions.ZoomReset()
	case "toggle_magnifier":
		inputActions.ToggleMagnifier()

	case "toggle_favorite":
		inputActions.ToggleFavorite()
	case "edit_note":
		inputActions.BeginNoteEdit()

	case "brightness_up":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Brightness += adjustmentStep })
	case "brightness_down":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Brightness -= adjustmentStep })
	case "contrast_up":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Contrast += adjustmentStep })
	case "contrast_down":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Contrast -= adjustmentStep })
	case "saturation_up":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Saturation += adjustmentStep })
	case "saturation_down":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Saturation -= adjustmentStep })
	case "sharpen_up":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Sharpen += adjustmentStep })
	case "sharpen_down":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Sharpen -= adjustmentStep })
	case "denoise_up":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Denoise += adjustmentStep })
	case "denoise_down":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.Denoise -= adjustmentStep })
	case "toggle_blue_light":
		inputActions.AdjustImage(func(a *ImageAdjustment) { a.BlueLight = !a.BlueLight })
	case "reset_adjustments":
		inputActions.AdjustImage(func(a *ImageAdjustment) { *a = DefaultImageAdjustment() })

	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}
