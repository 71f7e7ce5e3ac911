package domain

type Tone string

const (
	ToneConcise   Tone = "concise"
	ToneDetailed  Tone = "detailed"
	ToneTechnical Tone = "technical"
)

// User is the per-user context the pipeline scores and filters against.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Interests []string `json:"interests"`
	Keywords  []string `json:"keywords"`
	Tone      Tone     `json:"tone"`
}

// SummaryTone returns the user's preferred summary tone, defaulting to concise.
func (u User) SummaryTone() Tone {
	switch u.Tone {
	case ToneDetailed, ToneTechnical:
		return u.Tone
	default:
		return ToneConcise
	}
}
