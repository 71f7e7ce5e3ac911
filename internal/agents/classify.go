package agents

import (
	"context"
	"fmt"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const classifyContentLimit = 300

type Classification struct {
	Category domain.Category `json:"category"`
	Topics   []string        `json:"topics"`

	// Confidence is recorded for observability but does not gate.
	Confidence float64 `json:"confidence"`
}

type Classifier struct {
	LLM datasources.ChatCompleter
}

// Classify assigns the event one category and a set of topics.
func (a *Classifier) Classify(ctx context.Context, event domain.Event) (Classification, error) {
	prompt := fmt.Sprintf(`Classify this event into ONE category and determine relevant topics.

Event: %s
Content: %s

Categories:
- release: New product/feature launches
- incident: Outages, downtimes, breaking issues
- security: Vulnerabilities, CVEs, security updates
- upgrade: Major version updates, breaking changes
- trend: Industry trends, discussions
- policy: Regulations, laws, government decisions

Topics (select all that apply):
- technology, politics, finance, ai, cloud, sports, startups

Return JSON:
{
  "category": "string",
  "topics": ["string"],
  "confidence": number (0-1)
}`, event.Title, truncate(event.Content, classifyContentLimit))

	raw, err := a.LLM.CompleteJSON(ctx, systemPrompt, prompt)
	if err != nil {
		return Classification{}, fmt.Errorf("classifier call: %w", err)
	}

	var result Classification
	if err := decodeResponse(raw, &result); err != nil {
		return Classification{}, err
	}
	return result, nil
}
