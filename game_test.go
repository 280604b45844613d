package main

import "testing"

func TestSessionConfigStartMode(t *testing.T) {
	tests := []struct {
		name      string
		saved     string
		startMode string
		expected  string
	}{
		{"No flag", "double", "", "double"},
		{"Flag overrides", "single", "vertical", "vertical"},
		{"Unknown flag ignored", "double", "sideways", "double"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.DefaultViewMode = tt.saved

			got := sessionConfig(config, tt.startMode)
			if got.DefaultViewMode != tt.expected {
				t.Errorf("Expected session mode %q, got %q", tt.expected, got.DefaultViewMode)
			}
			if config.DefaultViewMode != tt.saved {
				t.Errorf("Saved mode changed to %q", config.DefaultViewMode)
			}
		})
	}
}

func TestGameRemembersChosenMode(t *testing.T) {
	config := DefaultConfig()
	config.DefaultViewMode = "single"

	g := &Game{
		config:  config,
		session: NewSession(sessionConfig(config, "vertical"), newMemStore(3, 0), 1, SessionHooks{}),
	}
	if g.session.Mode() != ViewVertical {
		t.Fatalf("Expected the run to start vertical, got %s", g.session.Mode())
	}
	if g.config.DefaultViewMode != "single" {
		t.Errorf("Start mode leaked into the saved config: %q", g.config.DefaultViewMode)
	}

	g.SetViewMode(ViewDouble)
	if g.session.Mode() != ViewDouble {
		t.Errorf("Expected double mode, got %s", g.session.Mode())
	}
	if g.config.DefaultViewMode != "double" {
		t.Errorf("Expected the chosen mode saved, got %q", g.config.DefaultViewMode)
	}
	if g.GetOverlayMessage() != "View: double" {
		t.Errorf("Unexpected overlay message %q", g.GetOverlayMessage())
	}
}
