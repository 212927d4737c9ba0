package config

// ModelTable maps the client-facing model identifiers to provider-qualified
// model strings. Unknown identifiers resolve to the default model, never to
// an error.
type ModelTable struct {
	Default string            `yaml:"default"`
	Models  map[string]string `yaml:"models"`
}

// Resolve translates a client model alias to the provider model string.
func (t *ModelTable) Resolve(alias string) string {
	if t == nil {
		return ""
	}
	if m, ok := t.Models[alias]; ok && m != "" {
		return m
	}
	return t.Default
}

// DefaultModelTable returns the built-in mapping used when models.yaml is
// absent or incomplete.
func DefaultModelTable() *ModelTable {
	return &ModelTable{
		Default: "google/gemini-2.5-flash",
		Models: map[string]string{
			"gemini-flash": "google/gemini-2.5-flash",
			"gemini-pro":   "google/gemini-2.5-pro",
			"gpt-mini":     "openai/gpt-5-mini",
			"gpt":          "openai/gpt-5",
		},
	}
}
