package main

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game is the ebiten host of one reading session
type Game struct {
	config       Config
	configStatus ConfigLoadResult

	session      *Session
	imageManager ImageManager
	renderer     *Renderer
	inputHandler *InputHandler

	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager

	fullscreen         bool
	savedWinW          int
	savedWinH          int
	showHelp           bool
	showInfo           bool
	overlayMessage     string
	overlayMessageTime time.Time

	screenW, screenH int
	exiting          bool
}

// NewGame wires a session for comicID on store to the window. A non-empty
// startMode opens the comic in that mode for this run only.
func NewGame(configStatus ConfigLoadResult, store Store, comicID int64, startMode string) *Game {
	config := configStatus.Config
	g := &Game{
		config:       config,
		configStatus: configStatus,
		fullscreen:   config.Fullscreen,
	}

	g.imageManager = NewImageManager(store, comicID, config.CacheSize, config.PreloadCount, config.PreloadEnabled)
	g.session = NewSession(sessionConfig(config, startMode), store, comicID, SessionHooks{
		PageChanged: g.pageChanged,
		PageSize:    g.imageManager.Size,
	})

	filters, err := NewFilterRenderer(config.CacheSize)
	if err != nil {
		log.Printf("Warning: Image filters unavailable: %v", err)
	}
	g.renderer = NewRenderer(g, filters)

	g.keybindingManager = NewKeybindingManager(config.Keybindings)
	g.mousebindingManager = NewMousebindingManager(config.Mousebindings, config.MouseSettings)
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager)

	g.session.Bind(g.imageManager.StopPreload)
	g.session.Bind(g.inputHandler.Detach)
	return g
}

// sessionConfig applies the one-off start mode without touching the
// settings that get saved
func sessionConfig(config Config, startMode string) Config {
	if _, ok := ParseViewMode(startMode); ok {
		config.DefaultViewMode = startMode
	}
	return config
}

// pageChanged keeps the image manager in step with the session
func (g *Game) pageChanged(page int, dir NavigationDirection) {
	if n := g.session.PageCount(); g.imageManager.PageCount() != n {
		g.imageManager.SetPageCount(n)
	}
	g.imageManager.StartPreload(page, dir)
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.Exit()
	}
	if g.exiting {
		g.shutdown()
		return ebiten.Termination
	}

	g.session.Tick()
	g.inputHandler.HandleInput()

	if g.exiting {
		g.shutdown()
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	g.syncViewport()
	return outsideWidth, outsideHeight
}

// syncViewport tells the session how large the page area is
func (g *Game) syncViewport() {
	content := contentRect(float64(g.screenW), float64(g.screenH), g.session.SidebarVisible())
	g.session.SetViewport(content.W, content.H)
}

// shutdown saves the window and reader settings and closes the session
func (g *Game) shutdown() {
	g.saveCurrentWindowSize()
	g.session.Close()
}

func (g *Game) saveCurrentWindowSize() {
	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		w, h := ebiten.WindowSize()
		g.config.WindowWidth = w
		g.config.WindowHeight = h
	}
	g.config.Fullscreen = g.fullscreen
	g.config.SidebarVisible = g.session.SidebarVisible()
	g.config.ImageAdjustment = g.session.ImageAdjustment()
	saveConfig(g.config)
}

// RenderState

func (g *Game) GetSession() *Session {
	return g.session
}

func (g *Game) IsFullscreen() bool {
	return g.fullscreen
}

func (g *Game) IsRightToLeft() bool {
	return g.config.RightToLeft
}

func (g *Game) GetPageImage(idx int) (*ebiten.Image, PageStatus) {
	return g.imageManager.Image(idx)
}

func (g *Game) IsShowingHelp() bool {
	return g.showHelp
}

func (g *Game) IsShowingInfo() bool {
	return g.showInfo
}

func (g *Game) GetOverlayMessage() string {
	return g.overlayMessage
}

func (g *Game) GetOverlayMessageTime() time.Time {
	return g.overlayMessageTime
}

func (g *Game) GetFontSize() float64 {
	return g.config.HelpFontSize
}

func (g *Game) GetConfigStatus() ConfigLoadResult {
	return g.configStatus
}

func (g *Game) GetKeybindings() map[string][]string {
	return g.keybindingManager.GetKeybindings()
}

func (g *Game) GetMousebindings() map[string][]string {
	return g.mousebindingManager.GetMousebindings()
}

func (g *Game) GetPreloadStats() PreloadStats {
	return g.imageManager.GetPreloadStats()
}

// InputState

func (g *Game) GetViewMode() ViewMode {
	return g.session.Mode()
}

func (g *Game) IsEditingNote() bool {
	return g.session.NoteEditor().Active()
}

func (g *Game) IsSessionReady() bool {
	return g.session.Ready()
}

// InputActions

func (g *Game) Exit() {
	g.exiting = true
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleInfo() {
	g.showInfo = !g.showInfo
}

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) ToggleSidebar() {
	g.session.ToggleSidebar()
	g.syncViewport()
}

func (g *Game) ToggleReadingDirection() {
	g.config.RightToLeft = !g.config.RightToLeft
	if g.config.RightToLeft {
		g.ShowOverlayMessage("Reading direction: right to left")
	} else {
		g.ShowOverlayMessage("Reading direction: left to right")
	}
	saveConfig(g.config)
}

func (g *Game) SetViewMode(mode ViewMode) {
	if g.session.Mode() == mode {
		return
	}
	g.session.SetMode(mode)
	g.config.DefaultViewMode = mode.String()
	g.syncViewport()
	g.ShowOverlayMessage(fmt.Sprintf("View: %s", mode))
}

func (g *Game) NavigateNext() {
	g.session.Next()
}

func (g *Game) NavigatePrevious() {
	g.session.Previous()
}

func (g *Game) JumpToPage(page int) {
	g.session.SelectPage(page)
}

// ScrollBy scrolls the vertical surface by steps scroll steps
func (g *Game) ScrollBy(steps float64) {
	g.session.ScrollBy(steps * g.config.ScrollStep)
}

func (g *Game) ZoomIn() {
	g.session.ZoomIn()
	g.ShowOverlayMessage(fmt.Sprintf("Zoom: %d%%", g.session.ZoomPercent()))
}

func (g *Game) ZoomOut() {
	g.session.ZoomOut()
	g.ShowOverlayMessage(fmt.Sprintf("Zoom: %d%%", g.session.ZoomPercent()))
}

func (g *Game) ZoomReset() {
	g.session.ZoomReset()
	g.ShowOverlayMessage("Zoom: 100%")
}

func (g *Game) ToggleMagnifier() {
	g.session.ToggleMagnifier()
	if g.session.MagnifierEnabled() {
		g.ShowOverlayMessage("Magnifier: on")
	} else {
		g.ShowOverlayMessage("Magnifier: off")
	}
}

// BeginDrag starts panning when the press landed on the page area
func (g *Game) BeginDrag(p Point) bool {
	content := contentRect(float64(g.screenW), float64(g.screenH), g.session.SidebarVisible())
	if !content.Contains(p) {
		return false
	}
	return g.session.BeginDrag(p)
}

func (g *Game) DragTo(p Point) {
	g.session.DragTo(p)
}

func (g *Game) EndDrag() {
	g.session.EndDrag()
}

// PointerMoved feeds the loupe with the page surface under the cursor
func (g *Game) PointerMoved(p Point) {
	if !g.session.MagnifierEnabled() {
		return
	}
	if surface, ok := g.renderer.SurfaceAt(p); ok {
		g.session.PointerOver(p, surface.Rect, surface.Page)
		return
	}
	g.session.PointerLeft()
}

func (g *Game) ToggleFavorite() {
	g.session.ToggleFavorite()
	page := g.session.CurrentPage()
	if g.session.PageAction(page).IsFavorite {
		g.ShowOverlayMessage(fmt.Sprintf("Page %d added to favorites", page+1))
	} else {
		g.ShowOverlayMessage(fmt.Sprintf("Page %d removed from favorites", page+1))
	}
}

func (g *Game) BeginNoteEdit() {
	g.session.BeginNote()
}

func (g *Game) NoteEditor() *NoteEditor {
	return g.session.NoteEditor()
}

func (g *Game) CommitNote() {
	page := g.session.NoteEditor().Page()
	g.session.CommitNote()
	g.ShowOverlayMessage(fmt.Sprintf("Note saved for page %d", page+1))
}

func (g *Game) CancelNote() {
	g.session.CancelNote()
}

func (g *Game) AdjustImage(fn func(a *ImageAdjustment)) {
	g.session.AdjustImage(fn)
	g.ShowOverlayMessage(adjustmentSummary(g.session.ImageAdjustment()))
}

func (g *Game) SidebarPageAt(p Point) (int, bool) {
	if !g.session.SidebarVisible() {
		return 0, false
	}
	return sidebarPageAt(p, float64(g.screenH), g.session.PageCount(), g.session.CurrentPage())
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

func (g *Game) GetCurrentIndex() int {
	return g.session.CurrentPage()
}

func (g *Game) GetTotalPagesCount() int {
	return g.session.PageCount()
}

// adjustmentSummary is the overlay text shown after an adjustment key
func adjustmentSummary(a ImageAdjustment) string {
	blue := "off"
	if a.BlueLight {
		blue = "on"
	}
	return fmt.Sprintf("Brightness %d%%  Contrast %d%%  Saturation %d%%\nSharpen %d  Denoise %d  Blue light %s",
		a.Brightness, a.Contrast, a.Saturation, a.Sharpen, a.Denoise, blue)
}
