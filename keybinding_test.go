package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestParseKeyString(t *testing.T) {
	mapping := getKeyMapping()
	tests := []struct {
		input    string
		expected KeyCombination
		ok       bool
	}{
		{"KeyA", KeyCombination{Key: ebiten.KeyA}, true},
		{"Shift+KeyD", KeyCombination{Key: ebiten.KeyD, Shift: true}, true},
		{"ctrl+alt+Key0", KeyCombination{Key: ebiten.Key0, Ctrl: true, Alt: true}, true},
		{"Numpad7", KeyCombination{Key: ebiten.KeyNumpad7}, true},
		{"ArrowRight", KeyCombination{Key: ebiten.KeyArrowRight}, true},
		{"Super+KeyA", KeyCombination{}, false},
		{"KeyAA", KeyCombination{}, false},
		{"", KeyCombination{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseKeyString(tt.input, mapping)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("parseKeyString(%q) = %+v, %v; want %+v, %v", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestValidateKeybindings(t *testing.T) {
	tests := []struct {
		name     string
		bindings map[string][]string
		wantErr  bool
	}{
		{"Defaults", GetDefaultKeybindings(), false},
		{"Unknown key", map[string][]string{"exit": {"KeyFoo"}}, true},
		{"Unknown modifier", map[string][]string{"exit": {"Meta+KeyQ"}}, true},
		{"Empty key", map[string][]string{"exit": {""}}, true},
		{"Conflict", map[string][]string{"exit": {"KeyQ"}, "help": {"KeyQ"}}, true},
		{"Same key twice for one action", map[string][]string{"exit": {"KeyQ", "KeyQ"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeybindings(tt.bindings)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateKeybindings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultBindingsCoverActions(t *testing.T) {
	keys := GetDefaultKeybindings()
	for _, def := range actionDefinitions {
		if _, ok := keys[def.Name]; !ok && len(def.Keys) > 0 {
			t.Errorf("Action %s has no default keybinding", def.Name)
		}
	}

	mapping := getKeyMapping()
	for action, list := range keys {
		for _, k := range list {
			if _, ok := parseKeyString(k, mapping); !ok {
				t.Errorf("Default key %q of %s does not parse", k, action)
			}
		}
	}

	for action, list := range GetDefaultMousebindings() {
		for _, m := range list {
			if _, ok := parseMouseString(m); !ok {
				t.Errorf("Default mouse binding %q of %s does not parse", m, action)
			}
		}
	}
}

func TestParseMouseString(t *testing.T) {
	tests := []struct {
		input    string
		expected MouseCombination
		ok       bool
	}{
		{"LeftClick", MouseCombination{Button: ebiten.MouseButtonLeft}, true},
		{"Back", MouseCombination{Button: ebiten.MouseButton3}, true},
		{"Shift+MiddleClick", MouseCombination{Button: ebiten.MouseButtonMiddle, Shift: true}, true},
		{"Ctrl+WheelUp", MouseCombination{IsWheel: true, WheelDeltaY: 1, Ctrl: true}, true},
		{"WheelDown", MouseCombination{IsWheel: true, WheelDeltaY: -1}, true},
		{"WheelLeft", MouseCombination{IsWheel: true, WheelDeltaX: -1}, true},
		{"DoubleLeftClick", MouseCombination{Button: ebiten.MouseButtonLeft, IsDoubleClick: true}, true},
		{"WheelSideways", MouseCombination{}, false},
		{"DoubleThumb", MouseCombination{}, false},
		{"Hyper+LeftClick", MouseCombination{}, false},
		{"", MouseCombination{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseMouseString(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("parseMouseString(%q) = %+v, %v; want %+v, %v", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestMousebindingManagerSkipsInvalid(t *testing.T) {
	mm := NewMousebindingManager(map[string][]string{
		"next":     {"Forward", "Nonsense"},
		"previous": {"Back"},
	}, GetDefaultMouseSettings())

	if got := len(mm.parsed["next"]); got != 1 {
		t.Errorf("Expected 1 parsed binding for next, got %d", got)
	}
	if mm.GetSettings().DragThreshold != 3 {
		t.Errorf("Expected default drag threshold, got %d", mm.GetSettings().DragThreshold)
	}
}

func TestInputHandlerDetach(t *testing.T) {
	// a detached handler must not touch its actions or state
	h := NewInputHandler(nil, nil, nil, nil)
	h.Detach()
	if h.HandleInput() {
		t.Error("Expected no input handled after Detach")
	}
}
