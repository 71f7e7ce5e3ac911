// Package review holds the human-review escalation policy and the queue of
// events awaiting admin sign-off.
package review

import (
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const (
	escalateImportanceThreshold = 9
	escalateRelevanceThreshold  = 8
)

// sensitiveCategories and sensitiveTopics together trigger escalation for
// security-style events in sensitive domains.
var sensitiveCategories = map[domain.Category]struct{}{
	domain.CategorySecurity: {},
	domain.CategoryIncident: {},
	"outage":                {},
	"vulnerability":         {},
}

var sensitiveTopics = map[string]struct{}{
	"politics":      {},
	"finance":       {},
	"cybersecurity": {},
}

var uncertainCategories = map[domain.Category]struct{}{
	domain.CategoryTrend:        {},
	domain.CategoryAnnouncement: {},
}

// Decision is the outcome of the escalation policy.
type Decision struct {
	Escalate bool
	Reason   string
}

// Evaluate applies the deterministic escalation rules in precedence order;
// the first matching rule supplies the human-facing reason.
func Evaluate(event domain.Event, relevanceScore float64) Decision {
	if event.ImportanceScore >= escalateImportanceThreshold {
		return Decision{Escalate: true, Reason: "High importance score (>=9)"}
	}

	if _, sensitive := sensitiveCategories[event.Category]; sensitive {
		if anyTopicIn(event.Topics, sensitiveTopics) {
			switch event.Category {
			case domain.CategorySecurity, "vulnerability":
				return Decision{Escalate: true, Reason: "Security-related event"}
			default:
				return Decision{Escalate: true, Reason: "Critical incident/outage"}
			}
		}
	}

	if relevanceScore >= escalateRelevanceThreshold {
		if _, uncertain := uncertainCategories[event.Category]; uncertain {
			return Decision{Escalate: true, Reason: "High user relevance but needs verification"}
		}
	}

	return Decision{}
}

func anyTopicIn(topics []string, set map[string]struct{}) bool {
	for _, t := range topics {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
