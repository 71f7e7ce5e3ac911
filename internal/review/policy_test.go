package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name           string
		event          domain.Event
		relevanceScore float64
		wantEscalate   bool
		wantReason     string
	}{
		{
			name:         "no_rule_matches",
			event:        domain.Event{Category: domain.CategoryRelease, ImportanceScore: 5},
			wantEscalate: false,
		},
		{
			name:         "importance_at_threshold",
			event:        domain.Event{ImportanceScore: 9},
			wantEscalate: true,
			wantReason:   "High importance score (>=9)",
		},
		{
			name: "importance_wins_over_security_rule",
			event: domain.Event{
				ImportanceScore: 9.5,
				Category:        domain.CategorySecurity,
				Topics:          []string{"cybersecurity"},
			},
			wantEscalate: true,
			wantReason:   "High importance score (>=9)",
		},
		{
			name: "security_category_with_sensitive_topic",
			event: domain.Event{
				Category: domain.CategorySecurity,
				Topics:   []string{"cybersecurity"},
			},
			wantEscalate: true,
			wantReason:   "Security-related event",
		},
		{
			name: "incident_with_sensitive_topic",
			event: domain.Event{
				Category: domain.CategoryIncident,
				Topics:   []string{"finance"},
			},
			wantEscalate: true,
			wantReason:   "Critical incident/outage",
		},
		{
			name: "security_category_without_sensitive_topic",
			event: domain.Event{
				Category: domain.CategorySecurity,
				Topics:   []string{"sports"},
			},
			wantEscalate: false,
		},
		{
			name:           "high_relevance_trend",
			event:          domain.Event{Category: domain.CategoryTrend},
			relevanceScore: 8,
			wantEscalate:   true,
			wantReason:     "High user relevance but needs verification",
		},
		{
			name:           "high_relevance_announcement",
			event:          domain.Event{Category: domain.CategoryAnnouncement},
			relevanceScore: 9.1,
			wantEscalate:   true,
			wantReason:     "High user relevance but needs verification",
		},
		{
			name:           "high_relevance_certain_category",
			event:          domain.Event{Category: domain.CategoryRelease},
			relevanceScore: 9.1,
			wantEscalate:   false,
		},
		{
			name:           "relevance_below_threshold_trend",
			event:          domain.Event{Category: domain.CategoryTrend},
			relevanceScore: 7.9,
			wantEscalate:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := Evaluate(tc.event, tc.relevanceScore)
			assert.Equal(t, tc.wantEscalate, decision.Escalate)
			assert.Equal(t, tc.wantReason, decision.Reason)
		})
	}
}
