package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

var toneInstructions = map[domain.Tone]string{
	domain.ToneConcise:   "Be brief and to the point.",
	domain.ToneDetailed:  "Provide comprehensive analysis.",
	domain.ToneTechnical: "Use technical terminology and deep details.",
}

type Summarizer struct {
	LLM datasources.ChatCompleter
}

// Summarize produces the structured summary for an event, in the user's
// preferred tone.
func (a *Summarizer) Summarize(ctx context.Context, event domain.Event, user domain.User) (domain.Summary, error) {
	tone := user.SummaryTone()

	prompt := fmt.Sprintf(`Summarize this event for someone interested in: %s
Tone: %s. %s

Event: %s
Content: %s
URL: %s

Provide:
1. tldr: One sentence (max 150 chars)
2. bullets: 3-5 key points
3. impact: Who is affected?
4. action_required: What should readers do? (or "None" if just informational)

Return valid JSON:
{
  "tldr": "string",
  "bullets": ["string"],
  "impact": "string",
  "action_required": "string"
}`,
		strings.Join(user.Interests, ", "), tone, toneInstructions[tone],
		event.Title, event.Content, event.URL)

	raw, err := a.LLM.CompleteJSON(ctx, systemPrompt, prompt)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarizer call: %w", err)
	}

	var summary domain.Summary
	if err := decodeResponse(raw, &summary); err != nil {
		return domain.Summary{}, err
	}
	return summary, nil
}
