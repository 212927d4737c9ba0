package prompt

import (
	"strings"

	"github.com/code-yaar/assistant-gateway/internal/config"
	"github.com/code-yaar/assistant-gateway/internal/types"
)

// Composer builds the ordered message list sent upstream: one system message
// selected by mode, one user message formed from the language context sentence
// and the payload.
type Composer struct {
	prompts func() *config.PromptsConfig
}

func NewComposer(prompts func() *config.PromptsConfig) *Composer {
	return &Composer{prompts: prompts}
}

// Compose builds the conversation for a code-mode request.
func (c *Composer) Compose(mode types.Mode, language, payload string) []types.Message {
	p := c.prompts()
	var user strings.Builder
	user.WriteString(p.LanguageLine(language))
	user.WriteString("\n\n")
	user.WriteString(payload)

	return []types.Message{
		{Role: types.RoleSystem, Content: p.SystemTemplate(string(mode))},
		{Role: types.RoleUser, Content: user.String()},
	}
}

// ComposeMentor builds the conversation for a mentor chat, folding whatever
// lesson context is present into the user message.
func (c *Composer) ComposeMentor(message string, lesson *types.MentorContext) []types.Message {
	p := c.prompts()

	var user strings.Builder
	if lesson != nil {
		user.WriteString(p.LanguageLine(lesson.Language))
		user.WriteString("\n")
		if lesson.StepTitle != "" {
			user.WriteString("Current step: " + lesson.StepTitle + "\n")
		}
		if lesson.StepConcept != "" {
			user.WriteString("Concept: " + lesson.StepConcept + "\n")
		}
		if lesson.StepTutorial != "" {
			user.WriteString("Tutorial: " + lesson.StepTutorial + "\n")
		}
		if lesson.UserCode != "" {
			user.WriteString("The learner's current code:\n" + lesson.UserCode + "\n")
		}
		user.WriteString("\n")
	} else {
		user.WriteString(p.DefaultLanguage)
		user.WriteString("\n\n")
	}
	user.WriteString(message)

	return []types.Message{
		{Role: types.RoleSystem, Content: p.SystemTemplate(string(types.ModeMentor))},
		{Role: types.RoleUser, Content: user.String()},
	}
}
