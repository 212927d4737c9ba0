package config

// PromptsConfig holds the static prompt material: per-mode system templates,
// the language context sentences, and the uncertainty phrases scanned for in
// completed responses. Loaded once at startup into an immutable structure.
type PromptsConfig struct {
	Modes              map[string]string `yaml:"modes"`
	Languages          map[string]string `yaml:"languages"`
	DefaultLanguage    string            `yaml:"default_language"`
	UncertaintyPhrases []string          `yaml:"uncertainty_phrases"`
}

// SystemTemplate returns the system prompt for a mode, falling back to the
// mentor template for unknown modes.
func (p *PromptsConfig) SystemTemplate(mode string) string {
	if t, ok := p.Modes[mode]; ok && t != "" {
		return t
	}
	return p.Modes["mentor"]
}

// LanguageLine returns the context sentence for a language, or the generic
// default for unknown or empty languages.
func (p *PromptsConfig) LanguageLine(language string) string {
	if l, ok := p.Languages[language]; ok && l != "" {
		return l
	}
	return p.DefaultLanguage
}

const uncertaintyInstruction = `If you are not confident in your answer, say "I'm not certain" and ask the learner to please verify the result before using it.`

// DefaultPrompts returns the built-in prompt material used when prompts.yaml
// is absent or incomplete.
func DefaultPrompts() *PromptsConfig {
	return &PromptsConfig{
		Modes: map[string]string{
			"generate": `You are Code-Yaar, an expert programming assistant. Write clean, idiomatic, well-commented code for the learner's request. Never produce code that is destructive, that attacks other systems, or that hides its intent. ` + uncertaintyInstruction,
			"debug":    `You are Code-Yaar, an expert debugger. Find the bugs in the learner's code, explain each one plainly, and show the corrected code. Never suggest fixes that introduce unsafe behavior. ` + uncertaintyInstruction,
			"explain":  `You are Code-Yaar, a patient programming teacher. Explain the learner's code step by step in simple language, covering what it does and why. ` + uncertaintyInstruction,
			"mentor":   `You are Code-Yaar, a friendly programming mentor guiding a learner through a course. Answer questions about the current lesson, encourage the learner, and keep answers short and practical. Never write complete solutions for graded exercises. ` + uncertaintyInstruction,
		},
		Languages: map[string]string{
			"python":     "The learner is working in Python.",
			"javascript": "The learner is working in JavaScript.",
			"typescript": "The learner is working in TypeScript.",
			"java":       "The learner is working in Java.",
			"c":          "The learner is working in C.",
			"cpp":        "The learner is working in C++.",
			"go":         "The learner is working in Go.",
			"sql":        "The learner is working in SQL.",
		},
		DefaultLanguage: "The learner is working in a general-purpose programming language.",
		UncertaintyPhrases: []string{
			"i'm not certain",
			"i am not certain",
			"i'm not sure",
			"i am not sure",
			"please verify",
			"i might be wrong",
			"double-check this",
		},
	}
}
