package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler handles all keyboard and mouse input processing
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager

	lastCursor Point
	pressedAt  Point
	pressed    bool
	dragging   bool
	detached   bool
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
	}
}

// Detach stops all input handling for good
func (h *InputHandler) Detach() {
	h.detached = true
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	if h.detached {
		return false
	}

	// The note editor owns the keyboard while it is open
	if h.inputState.IsEditingNote() {
		return h.handleNoteEditor()
	}

	inputProcessed := h.runActions("exit", "help", "info", "fullscreen")
	if !h.inputState.IsSessionReady() {
		return inputProcessed
	}

	inputProcessed = h.handleModeKeys() || inputProcessed
	inputProcessed = h.handleNavigationKeys() || inputProcessed
	inputProcessed = h.handleZoomKeys() || inputProcessed
	inputProcessed = h.handleAnnotationKeys() || inputProcessed
	inputProcessed = h.handleAdjustmentKeys() || inputProcessed
	inputProcessed = h.handleMouse() || inputProcessed

	return inputProcessed
}

// runActions tries each action on both the keyboard and the mouse
func (h *InputHandler) runActions(actions ...string) bool {
	inputProcessed := false
	for _, action := range actions {
		if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
			continue
		}
		if h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}
	return inputProcessed
}

func (h *InputHandler) handleNoteEditor() bool {
	editor := h.inputActions.NoteEditor()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.inputActions.CancelNote()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			editor.Newline()
		} else {
			h.inputActions.CommitNote()
		}
		return true
	}

	if isKeyRepeated(KeyCombination{Key: ebiten.KeyBackspace}) {
		editor.Backspace()
		return true
	}

	chars := ebiten.AppendInputChars(nil)
	if len(chars) > 0 {
		editor.Insert(chars...)
		return true
	}

	return false
}

func (h *InputHandler) handleModeKeys() bool {
	return h.runActions("mode_single", "mode_double", "mode_vertical", "toggle_sidebar", "toggle_reading_direction")
}

func (h *InputHandler) handleNavigationKeys() bool {
	inputProcessed := h.runActions("next", "previous", "jump_first", "jump_last")

	for _, action := range []string{"scroll_up", "scroll_down"} {
		if h.keybindingManager.ExecuteRepeatingAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}

	return inputProcessed
}

func (h *InputHandler) handleZoomKeys() bool {
	return h.runActions("zoom_in", "zoom_out", "zoom_reset", "toggle_magnifier")
}

func (h *InputHandler) handleAnnotationKeys() bool {
	return h.runActions("toggle_favorite", "edit_note")
}

func (h *InputHandler) handleAdjustmentKeys() bool {
	return h.runActions(
		"brightness_up", "brightness_down",
		"contrast_up", "contrast_down",
		"saturation_up", "saturation_down",
		"sharpen_up", "sharpen_down",
		"denoise_up", "denoise_down",
		"toggle_blue_light", "reset_adjustments",
	)
}

// handleMouse covers the pointer: wheel scrolling, sidebar clicks, drag
// panning and the magnifier
func (h *InputHandler) handleMouse() bool {
	settings := h.mousebindingManager.GetSettings()
	if !settings.EnableMouse {
		return false
	}

	inputProcessed := false
	x, y := ebiten.CursorPosition()
	cursor := Point{X: float64(x), Y: float64(y)}

	if cursor != h.lastCursor {
		h.lastCursor = cursor
		h.inputActions.PointerMoved(cursor)
		inputProcessed = true
	}

	inputProcessed = h.handleWheel() || inputProcessed

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if page, ok := h.inputActions.SidebarPageAt(cursor); ok {
			h.inputActions.JumpToPage(page)
			return true
		}
		h.pressed = true
		h.pressedAt = cursor
	}

	if h.pressed && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && settings.EnableDragPan {
		delta := cursor.Sub(h.pressedAt)
		threshold := float64(settings.DragThreshold)
		if !h.dragging && delta.X*delta.X+delta.Y*delta.Y >= threshold*threshold {
			h.dragging = h.inputActions.BeginDrag(h.pressedAt)
		}
		if h.dragging {
			h.inputActions.DragTo(cursor)
			inputProcessed = true
		}
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		h.pressed = false
		if h.dragging {
			h.dragging = false
			h.inputActions.EndDrag()
		}
	}

	return inputProcessed
}

// handleWheel scrolls the vertical surface or turns pages. Wheel motion that
// a mouse binding consumed (Ctrl+Wheel zoom) is not used again.
func (h *InputHandler) handleWheel() bool {
	_, wheelY := h.mousebindingManager.Wheel()
	if wheelY == 0 {
		return false
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyAlt) {
		return false
	}

	if h.inputState.GetViewMode() == ViewVertical {
		h.inputActions.ScrollBy(-wheelY)
		return true
	}

	if wheelY < 0 {
		h.inputActions.NavigateNext()
	} else {
		h.inputActions.NavigatePrevious()
	}
	return true
}
