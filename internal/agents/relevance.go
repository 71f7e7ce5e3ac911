package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const (
	relevanceDefaultBase = 5
	relevanceMin         = 1
	relevanceMax         = 10

	keywordBoostWeight   = 0.5
	feedbackWeight       = 0.3
	topicAlignmentWeight = 0.3

	// ratingHistoryLimit bounds how many recent rated events feed the
	// feedback adjustment.
	ratingHistoryLimit = 50
)

// RelevanceBreakdown exposes each contributing term for observability.
type RelevanceBreakdown struct {
	Base               float64 `json:"base"`
	KeywordBoost       float64 `json:"keyword_boost"`
	FeedbackAdjustment float64 `json:"feedback_adjustment"`
	TopicAlignment     float64 `json:"topic_alignment"`
}

type RelevanceResult struct {
	Score     float64            `json:"score"`
	Breakdown RelevanceBreakdown `json:"breakdown"`
}

// RelevanceScorer is the one pure stage: no text-generation call, only the
// user's stored feedback history.
type RelevanceScorer struct {
	Ratings datasources.RecentRatingsLister
}

// Score computes clamp(1, 10, base + keywordBoost + feedbackAdjustment +
// topicAlignment), where base is the noise-filter score (default 5 when
// absent).
func (a *RelevanceScorer) Score(ctx context.Context, event domain.Event, user domain.User) (RelevanceResult, error) {
	base := event.ImportanceScore
	if base == 0 {
		base = relevanceDefaultBase
	}

	title := strings.ToLower(event.Title)
	keywordMatches := 0
	for _, keyword := range user.Keywords {
		if strings.Contains(title, strings.ToLower(keyword)) {
			keywordMatches++
		}
	}
	keywordBoost := keywordBoostWeight * float64(keywordMatches)

	feedback, err := a.feedbackAdjustment(ctx, user.ID)
	if err != nil {
		return RelevanceResult{}, err
	}

	interests := make(map[string]struct{}, len(user.Interests))
	for _, interest := range user.Interests {
		interests[interest] = struct{}{}
	}
	topicMatches := 0
	for _, topic := range event.Topics {
		if _, ok := interests[topic]; ok {
			topicMatches++
		}
	}
	topicAlignment := topicAlignmentWeight * float64(topicMatches)

	score := base + keywordBoost + feedback + topicAlignment
	if score < relevanceMin {
		score = relevanceMin
	}
	if score > relevanceMax {
		score = relevanceMax
	}

	return RelevanceResult{
		Score: score,
		Breakdown: RelevanceBreakdown{
			Base:               base,
			KeywordBoost:       keywordBoost,
			FeedbackAdjustment: feedback,
			TopicAlignment:     topicAlignment,
		},
	}, nil
}

// feedbackAdjustment maps the user's average historical rating onto
// -0.6..+0.6, zero with no history.
func (a *RelevanceScorer) feedbackAdjustment(ctx context.Context, userID string) (float64, error) {
	ratings, err := a.Ratings.ListRecentRatings(ctx, userID, ratingHistoryLimit)
	if err != nil {
		return 0, fmt.Errorf("listing rating history: %w", err)
	}
	if len(ratings) == 0 {
		return 0, nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return feedbackWeight * (avg - 3), nil
}
