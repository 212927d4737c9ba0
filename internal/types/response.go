package types

// MentorResponse is the wire body of a successful POST /v1/mentor.
type MentorResponse struct {
	Response string `json:"response"`
	Warning  bool   `json:"warning,omitempty"`
}
