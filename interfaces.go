package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	GetSession() *Session
	IsFullscreen() bool
	IsRightToLeft() bool

	// Decoded page images, unfiltered. The status tells whether the image is
	// the page itself, an error card or not there yet.
	GetPageImage(idx int) (*ebiten.Image, PageStatus)

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
	GetPreloadStats() PreloadStats
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()
	ToggleSidebar()
	ToggleReadingDirection()
	SetViewMode(mode ViewMode)

	// Navigation
	NavigateNext()
	NavigatePrevious()
	JumpToPage(page int)
	ScrollBy(steps float64)

	// Zoom, pan and magnifier
	ZoomIn()
	ZoomOut()
	ZoomReset()
	ToggleMagnifier()
	BeginDrag(p Point) bool
	DragTo(p Point)
	EndDrag()
	PointerMoved(p Point)

	// Annotations
	ToggleFavorite()
	BeginNoteEdit()
	NoteEditor() *NoteEditor
	CommitNote()
	CancelNote()

	// Image adjustment
	AdjustImage(fn func(a *ImageAdjustment))

	// Sidebar
	SidebarPageAt(p Point) (int, bool)

	// Messages
	ShowOverlayMessage(message string)

	// Common data access
	GetCurrentIndex() int
	GetTotalPagesCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	GetViewMode() ViewMode
	IsEditingNote() bool
	IsSessionReady() bool
}
