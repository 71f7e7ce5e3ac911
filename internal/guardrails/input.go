// Package guardrails holds the cheap deterministic checks that gate events
// before expensive classification work and gate summaries before they reach
// a user. No network or storage access.
package guardrails

import (
	"strings"
	"unicode/utf8"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const (
	minTitleLen = 5
	maxTitleLen = 500
)

// spamKeywords trigger rejection when found anywhere in the title,
// case-insensitively.
var spamKeywords = []string{"meme", "upvote if", "click here", "buy now"}

// InputCheck is the outcome of the input guard.
type InputCheck struct {
	Valid  bool
	Reason string
}

// CheckInput validates an event before any agent runs. If the user has set
// keywords, at least one must appear in the title or content.
func CheckInput(event domain.Event, user domain.User) InputCheck {
	// Limits are in characters, not bytes.
	titleLen := utf8.RuneCountInString(event.Title)
	if titleLen < minTitleLen {
		return InputCheck{Reason: "title too short"}
	}
	if titleLen > maxTitleLen {
		return InputCheck{Reason: "title too long"}
	}

	title := strings.ToLower(event.Title)
	for _, keyword := range spamKeywords {
		if strings.Contains(title, keyword) {
			return InputCheck{Reason: "spam detected"}
		}
	}

	if len(user.Keywords) > 0 {
		content := strings.ToLower(event.Content)
		matched := false
		for _, keyword := range user.Keywords {
			k := strings.ToLower(keyword)
			if strings.Contains(title, k) || strings.Contains(content, k) {
				matched = true
				break
			}
		}
		if !matched {
			return InputCheck{Reason: "no matching keywords"}
		}
	}

	return InputCheck{Valid: true}
}
