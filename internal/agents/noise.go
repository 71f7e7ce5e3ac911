package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const noiseContentLimit = 500

// MinImportantScore is the noise-filter gate: events scoring below it, or
// judged unimportant outright, are filtered out of the pipeline.
const MinImportantScore = 5

type NoiseResult struct {
	Important bool    `json:"important"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

// Passes reports whether the event survives the noise gate.
func (r NoiseResult) Passes() bool {
	return r.Important && r.Score >= MinImportantScore
}

type NoiseFilter struct {
	LLM datasources.ChatCompleter
}

// Filter asks the text-generation capability whether the event is
// newsworthy for someone with the user's interests.
func (a *NoiseFilter) Filter(ctx context.Context, event domain.Event, user domain.User) (NoiseResult, error) {
	content := truncate(event.Content, noiseContentLimit)
	if content == "" {
		content = "No content"
	}

	prompt := fmt.Sprintf(`Analyze if this event is important for someone interested in: %s

Event Title: %s
Event Content: %s

Return JSON with:
- important: boolean (true if this is newsworthy/significant)
- score: number 1-10 (importance level)
- reason: string (brief explanation)

Ignore: memes, jokes, personal opinions, low-quality posts
Focus on: releases, incidents, breaking news, major updates`,
		strings.Join(user.Interests, ", "), event.Title, content)

	raw, err := a.LLM.CompleteJSON(ctx, systemPrompt, prompt)
	if err != nil {
		return NoiseResult{}, fmt.Errorf("noise filter call: %w", err)
	}

	var result NoiseResult
	if err := decodeResponse(raw, &result); err != nil {
		return NoiseResult{}, err
	}
	return result, nil
}
