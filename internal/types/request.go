package types

// Mode is the request intent. It selects the system prompt and the sampling
// temperature used for the upstream call.
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeDebug    Mode = "debug"
	ModeExplain  Mode = "explain"
	ModeMentor   Mode = "mentor"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeGenerate, ModeDebug, ModeExplain, ModeMentor:
		return Mode(s), true
	default:
		return "", false
	}
}

// IsCodeMode reports whether the mode operates on a code payload.
func (m Mode) IsCodeMode() bool {
	return m == ModeGenerate || m == ModeDebug || m == ModeExplain
}

// AssistRequest is the wire body of POST /v1/assist.
type AssistRequest struct {
	Mode     string `json:"mode"`
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Model    string `json:"model,omitempty"`
}

// MentorContext carries the lesson the learner is currently on. All fields
// are optional; whatever is present is folded into the user message.
type MentorContext struct {
	Language     string `json:"language,omitempty"`
	StepTitle    string `json:"stepTitle,omitempty"`
	StepConcept  string `json:"stepConcept,omitempty"`
	StepTutorial string `json:"stepTutorial,omitempty"`
	UserCode     string `json:"userCode,omitempty"`
}

// MentorRequest is the wire body of POST /v1/mentor.
type MentorRequest struct {
	Message string         `json:"message"`
	Context *MentorContext `json:"context,omitempty"`
	Model   string         `json:"model,omitempty"`
}

// Message is one entry of the conversation sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
