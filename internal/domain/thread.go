package domain

import (
	"strconv"
	"strings"
	"time"
)

// ThreadContext is free-form bookkeeping about why a thread exists and what
// it currently covers.
type ThreadContext struct {
	CreatedReason string    `json:"created_reason,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	LastUpdated   time.Time `json:"last_updated,omitempty"`
}

// Thread is an evolving cluster of related events treated as one story.
// Membership is append-only while the thread is active.
type Thread struct {
	Slug      string        `json:"slug"`
	Title     string        `json:"title"`
	EventIDs  []string      `json:"event_ids"`
	AIContext ThreadContext `json:"ai_context"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// HasEvent reports whether the event is already a member of the thread.
func (t Thread) HasEvent(eventID string) bool {
	for _, id := range t.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

const threadSlugMaxLen = 50

// MakeThreadSlug derives a unique thread slug from a title and creation time:
// lower-cased, non-alphanumeric runs collapsed to single hyphens, trimmed,
// truncated to 50 chars, then suffixed with the creation timestamp.
func MakeThreadSlug(title string, createdAt time.Time) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > threadSlugMaxLen {
		slug = slug[:threadSlugMaxLen]
	}

	return slug + "-" + strconv.FormatInt(createdAt.UnixMilli(), 10)
}
