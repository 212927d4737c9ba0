package config

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestModelTable_Resolve(t *testing.T) {
	table := DefaultModelTable()

	tests := []struct {
		alias    string
		expected string
	}{
		{"gemini-flash", "google/gemini-2.5-flash"},
		{"gemini-pro", "google/gemini-2.5-pro"},
		{"gpt-mini", "openai/gpt-5-mini"},
		// Unknown aliases fall back to the default, never an error.
		{"claude-opus", "google/gemini-2.5-flash"},
		{"", "google/gemini-2.5-flash"},
		{"totally-made-up", "google/gemini-2.5-flash"},
	}

	for _, tt := range tests {
		if got := table.Resolve(tt.alias); got != tt.expected {
			t.Errorf("Resolve(%q) = %q, want %q", tt.alias, got, tt.expected)
		}
	}
}

func TestPrompts_SystemTemplate(t *testing.T) {
	p := DefaultPrompts()

	for _, mode := range []string{"generate", "debug", "explain", "mentor"} {
		if p.SystemTemplate(mode) == "" {
			t.Errorf("missing template for mode %q", mode)
		}
	}

	// Unknown mode falls back to the mentor template.
	if p.SystemTemplate("weird") != p.Modes["mentor"] {
		t.Error("expected mentor fallback for unknown mode")
	}
}

func TestPrompts_LanguageLine(t *testing.T) {
	p := DefaultPrompts()

	if got := p.LanguageLine("python"); got != "The learner is working in Python." {
		t.Errorf("unexpected python line: %q", got)
	}
	if got := p.LanguageLine("brainfuck"); got != p.DefaultLanguage {
		t.Errorf("expected default line for unknown language, got %q", got)
	}
	if got := p.LanguageLine(""); got != p.DefaultLanguage {
		t.Errorf("expected default line for empty language, got %q", got)
	}
}
