package domain

import (
	"time"
)

type Source string

const (
	SourceRSS        Source = "rss"
	SourceHackerNews Source = "hackernews"
	SourceGitHub     Source = "github"
)

type Category string

const (
	CategoryRelease  Category = "release"
	CategoryIncident Category = "incident"
	CategorySecurity Category = "security"
	CategoryUpgrade  Category = "upgrade"
	CategoryTrend    Category = "trend"
	CategoryPolicy   Category = "policy"

	// Collectors may pre-tag raw events before classification runs.
	CategoryAnnouncement Category = "announcement"
)

type ReviewStatus string

const (
	ReviewStatusNone     ReviewStatus = ""
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
	ReviewStatusEdited   ReviewStatus = "edited"
)

// Summary is the structured output of the summarizer stage.
type Summary struct {
	TLDR           string   `json:"tldr"`
	Bullets        []string `json:"bullets"`
	Impact         string   `json:"impact"`
	ActionRequired string   `json:"action_required"`
}

// Event is a unit of collected news content. Collectors create it raw
// (no category, topics or summary); a successful pipeline run fills those
// in exactly once, and only a human review edit may change them after.
type Event struct {
	ID               string       `json:"id"`
	Source           Source       `json:"source"`
	SourceID         string       `json:"source_id"`
	Title            string       `json:"title"`
	Content          string       `json:"content"`
	URL              string       `json:"url"`
	PublishedAt      time.Time    `json:"published_at"`
	Category         Category     `json:"category,omitempty"`
	Topics           []string     `json:"topics,omitempty"`
	ImportanceScore  float64      `json:"importance_score,omitempty"`
	NoiseScore       float64      `json:"noise_score,omitempty"`
	Summary          *Summary     `json:"summary,omitempty"`
	NeedsHumanReview bool         `json:"needs_human_review"`
	ReviewStatus     ReviewStatus `json:"review_status,omitempty"`
	ReviewReason     string       `json:"review_reason,omitempty"`
	ReviewedBy       string       `json:"reviewed_by,omitempty"`
	AIProcessed      bool         `json:"ai_processed"`
	CreatedAt        time.Time    `json:"created_at"`
}

// UserEvent links a user to an event queued for delivery to them.
// Unique on (UserID, EventID); created only by a successful pipeline run.
type UserEvent struct {
	UserID         string     `json:"user_id"`
	EventID        string     `json:"event_id"`
	RelevanceScore float64    `json:"relevance_score"`
	Sent           bool       `json:"sent"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	Rating         *int       `json:"rating,omitempty"`
	Opened         bool       `json:"opened"`
	Clicked        bool       `json:"clicked"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ProcessingResult is the normalized outcome of a successful pipeline pass
// for one (event, user) pair.
type ProcessingResult struct {
	Success          bool     `json:"success"`
	NeedsHumanReview bool     `json:"needs_human_review"`
	Category         Category `json:"category"`
	Topics           []string `json:"topics"`
	Summary          Summary  `json:"summary"`
	ImportanceScore  float64  `json:"importance_score"`
	NoiseScore       float64  `json:"noise_score"`
	RelevanceScore   float64  `json:"relevance_score"`
}
