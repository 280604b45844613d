package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/colorm"
)

// Adjustment ranges
const (
	minBrightness = 50
	maxBrightness = 150
	minContrast   = 50
	maxContrast   = 150
	minSaturation = 0
	maxSaturation = 200
	maxSharpen    = 100
	maxDenoise    = 100

	// Largest blur radius in pixels, reached at denoise=100
	maxDenoiseRadius = 2.0
)

// Blue light overlay: fixed warm tint multiplied over the page
var blueLightTint = color.NRGBA{R: 255, G: 147, B: 41, A: 102} // ~40% opacity

// ImageAdjustment holds the user's image settings
type ImageAdjustment struct {
	Brightness int  `json:"brightness"`
	Contrast   int  `json:"contrast"`
	Saturation int  `json:"saturation"`
	Sharpen    int  `json:"sharpen"`
	Denoise    int  `json:"denoise"`
	BlueLight  bool `json:"blue_light"`
}

// DefaultImageAdjustment returns the neutral settings
func DefaultImageAdjustment() ImageAdjustment {
	return ImageAdjustment{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
	}
}

// Clamped returns a copy with every field inside its range
func (a ImageAdjustment) Clamped() ImageAdjustment {
	a.Brightness = clampInt(a.Brightness, minBrightness, maxBrightness)
	a.Contrast = clampInt(a.Contrast, minContrast, maxContrast)
	a.Saturation = clampInt(a.Saturation, minSaturation, maxSaturation)
	a.Sharpen = clampInt(a.Sharpen, 0, maxSharpen)
	a.Denoise = clampInt(a.Denoise, 0, maxDenoise)
	return a
}

// FilterChain is the composed visual filter applied to every page surface
// and to the loupe. Stages run in order: colour, sharpen, blur.
type FilterChain struct {
	Brightness float64 // multiplier, 1 is neutral
	Contrast   float64
	Saturation float64

	// Kernel is the 3x3 sharpen convolution in row-major order, nil when
	// sharpening is off
	Kernel *[9]float64

	// BlurRadius in pixels, 0 when denoise is off
	BlurRadius float64

	BlueLight bool
}

// BuildFilterChain maps adjustment settings onto a filter description
func BuildFilterChain(a ImageAdjustment) FilterChain {
	a = a.Clamped()
	chain := FilterChain{
		Brightness: float64(a.Brightness) / 100,
		Contrast:   float64(a.Contrast) / 100,
		Saturation: float64(a.Saturation) / 100,
		BlueLight:  a.BlueLight,
	}
	if a.Sharpen > 0 {
		k := SharpenKernel(a.Sharpen)
		chain.Kernel = &k
	}
	if a.Denoise > 0 {
		chain.BlurRadius = float64(a.Denoise) / 100 * maxDenoiseRadius
	}
	return chain
}

// SharpenKernel interpolates between the identity kernel and the unity-gain
// sharpen kernel. With s = sharpen/100 the centre is 4s+1, orthogonal
// neighbours are -s and corners 0, so the weights always sum to 1.
func SharpenKernel(sharpen int) [9]float64 {
	s := float64(clampInt(sharpen, 0, maxSharpen)) / 100
	return [9]float64{
		0, -s, 0,
		-s, 4*s + 1, -s,
		0, -s, 0,
	}
}

// HasColorStage reports whether the colour matrix differs from identity
func (f FilterChain) HasColorStage() bool {
	return f.Brightness != 1 || f.Contrast != 1 || f.Saturation != 1
}

// IsIdentity reports whether the chain leaves the page unchanged
func (f FilterChain) IsIdentity() bool {
	return !f.HasColorStage() && f.Kernel == nil && f.BlurRadius == 0 && !f.BlueLight
}

// ColorM builds the colour matrix for brightness, contrast and saturation,
// composed in that order
func (f FilterChain) ColorM() colorm.ColorM {
	var cm colorm.ColorM
	if f.Brightness != 1 {
		cm.Scale(f.Brightness, f.Brightness, f.Brightness, 1)
	}
	if f.Contrast != 1 {
		cm.Scale(f.Contrast, f.Contrast, f.Contrast, 1)
		offset := 0.5 * (1 - f.Contrast)
		cm.Translate(offset, offset, offset, 0)
	}
	if f.Saturation != 1 {
		cm.ChangeHSV(0, f.Saturation, 1)
	}
	return cm
}

// String renders the chain in CSS filter notation, used by the info overlay
// and debug logs
func (f FilterChain) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "brightness(%s%%) contrast(%s%%) saturate(%s%%)",
		formatPercent(f.Brightness), formatPercent(f.Contrast), formatPercent(f.Saturation))
	if f.Kernel != nil {
		parts := make([]string, 0, len(f.Kernel))
		for _, w := range f.Kernel {
			parts = append(parts, strconv.FormatFloat(w, 'g', 4, 64))
		}
		fmt.Fprintf(&b, " convolve(%s)", strings.Join(parts, " "))
	}
	if f.BlurRadius > 0 {
		fmt.Fprintf(&b, " blur(%spx)", strconv.FormatFloat(f.BlurRadius, 'g', 4, 64))
	}
	return b.String()
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', -1, 64)
}
