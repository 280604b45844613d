package main

import "testing"

func TestBuildFilterChainDefaults(t *testing.T) {
	chain := BuildFilterChain(DefaultImageAdjustment())
	if !chain.IsIdentity() {
		t.Errorf("Expected identity chain for defaults, got %s", chain)
	}
	if chain.HasColorStage() {
		t.Error("Expected no colour stage for defaults")
	}
	if got := chain.String(); got != "brightness(100%) contrast(100%) saturate(100%)" {
		t.Errorf("Unexpected chain string %q", got)
	}
}

func TestBuildFilterChain(t *testing.T) {
	tests := []struct {
		name     string
		adjust   ImageAdjustment
		expected string
	}{
		{
			name:     "Colour only",
			adjust:   ImageAdjustment{Brightness: 120, Contrast: 90, Saturation: 0},
			expected: "brightness(120%) contrast(90%) saturate(0%)",
		},
		{
			name:     "Sharpen full",
			adjust:   ImageAdjustment{Brightness: 100, Contrast: 100, Saturation: 100, Sharpen: 100},
			expected: "brightness(100%) contrast(100%) saturate(100%) convolve(0 -1 0 -1 5 -1 0 -1 0)",
		},
		{
			name:     "Denoise half",
			adjust:   ImageAdjustment{Brightness: 100, Contrast: 100, Saturation: 100, Denoise: 50},
			expected: "brightness(100%) contrast(100%) saturate(100%) blur(1px)",
		},
		{
			name:     "Blue light is not part of the filter string",
			adjust:   ImageAdjustment{Brightness: 100, Contrast: 100, Saturation: 100, BlueLight: true},
			expected: "brightness(100%) contrast(100%) saturate(100%)",
		},
		{
			name:     "Out of range values are clamped",
			adjust:   ImageAdjustment{Brightness: 10, Contrast: 400, Saturation: -5, Denoise: 300},
			expected: "brightness(50%) contrast(150%) saturate(0%) blur(2px)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := BuildFilterChain(tt.adjust)
			if got := chain.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBlueLightBreaksIdentity(t *testing.T) {
	a := DefaultImageAdjustment()
	a.BlueLight = true
	chain := BuildFilterChain(a)
	if chain.IsIdentity() {
		t.Error("Expected blue light to make the chain non-identity")
	}
	if chain.HasColorStage() {
		t.Error("Blue light is an overlay, not a colour stage")
	}
}

func TestSharpenKernelSumsToOne(t *testing.T) {
	for _, s := range []int{0, 1, 25, 50, 99, 100, 150} {
		k := SharpenKernel(s)
		sum := 0.0
		for _, w := range k {
			sum += w
		}
		if sum < 0.999999 || sum > 1.000001 {
			t.Errorf("SharpenKernel(%d) sums to %v", s, sum)
		}
	}

	identity := SharpenKernel(0)
	if identity != [9]float64{0, 0, 0, 0, 1, 0, 0, 0, 0} {
		t.Errorf("Expected identity kernel at 0, got %v", identity)
	}
}

func TestImageAdjustmentClamped(t *testing.T) {
	a := ImageAdjustment{Brightness: 500, Contrast: 0, Saturation: 999, Sharpen: -4, Denoise: 101, BlueLight: true}.Clamped()
	expected := ImageAdjustment{
		Brightness: maxBrightness,
		Contrast:   minContrast,
		Saturation: maxSaturation,
		Sharpen:    0,
		Denoise:    maxDenoise,
		BlueLight:  true,
	}
	if a != expected {
		t.Errorf("Clamped() = %+v, want %+v", a, expected)
	}
}
