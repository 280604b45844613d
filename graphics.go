package main

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Shared palette
var (
	colorWhite       = color.RGBA{255, 255, 255, 255}
	colorMuted       = color.RGBA{170, 170, 170, 255}
	colorBackground  = color.RGBA{24, 24, 27, 255}
	colorPanel       = color.RGBA{39, 39, 42, 255}
	colorOverlay     = color.RGBA{0, 0, 0, 180}
	colorPlaceholder = color.RGBA{63, 63, 70, 255}
	colorAccent      = color.RGBA{59, 130, 246, 255}
	colorFavorite    = color.RGBA{250, 204, 21, 255}
	colorError       = color.RGBA{120, 30, 30, 255}
)

// Global font source shared by every text face
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// newFace returns a face of the given size, nil before InitGraphics
func newFace(size float64) *text.GoTextFace {
	if globalFontSource == nil {
		return nil
	}
	return &text.GoTextFace{Source: globalFontSource, Size: size}
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	if font == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	op.LineSpacing = font.Size * 1.3
	text.Draw(screen, textString, font, op)
}

// MeasureText returns the width and height of textString in font
func MeasureText(textString string, font *text.GoTextFace) (float64, float64) {
	if font == nil {
		return 0, 0
	}
	return text.Measure(textString, font, font.Size*1.3)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawRectOutline strokes the border of r
func DrawRectOutline(screen *ebiten.Image, r Rect, width float64, c color.RGBA) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), float32(width), c, true)
}

// DrawImageInRect draws img scaled to exactly fill r
func DrawImageInRect(screen, img *ebiten.Image, r Rect) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.W/float64(b.Dx()), r.H/float64(b.Dy()))
	op.GeoM.Translate(r.X, r.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// FitRect returns the largest rect with the proportions of imgW x imgH that
// fits in area, centred
func FitRect(imgW, imgH int, area Rect) Rect {
	if imgW <= 0 || imgH <= 0 || area.W <= 0 || area.H <= 0 {
		return Rect{X: area.X, Y: area.Y}
	}
	scale := area.W / float64(imgW)
	if s := area.H / float64(imgH); s < scale {
		scale = s
	}
	w, h := float64(imgW)*scale, float64(imgH)*scale
	return Rect{X: area.X + (area.W-w)/2, Y: area.Y + (area.H-h)/2, W: w, H: h}
}

// CreateErrorImage creates an error card naming what failed and why
func CreateErrorImage(width, height int, label, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(colorError)

	border := Rect{X: 1.5, Y: 1.5, W: float64(width) - 3, H: float64(height) - 3}
	DrawRectOutline(errorImg, border, 3, colorWhite)

	errorFont := newFace(20)
	if errorFont == nil {
		return errorImg
	}

	labelText := label
	reasonText := "Reason: " + errorMsg

	// Rough estimate of 10px per character
	maxChars := (width - 20) / 10
	if len(labelText) > maxChars {
		labelText = labelText[:maxChars-3] + "..."
	}
	if len(reasonText) > maxChars {
		reasonText = reasonText[:maxChars-3] + "..."
	}

	DrawText(errorImg, "ERROR", errorFont, 10, 30, colorWhite)
	DrawText(errorImg, labelText, errorFont, 10, 60, colorWhite)
	DrawText(errorImg, reasonText, errorFont, 10, 90, colorWhite)

	return errorImg
}
