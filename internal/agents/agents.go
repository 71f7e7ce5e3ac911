// Package agents implements the pipeline's decision stages. Noise filter,
// classifier and summarizer each wrap exactly one call to the external
// text-generation capability; relevance scoring is pure computation.
package agents

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = "You are a precise, factual analyst. Always respond in valid JSON when requested."

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func decodeResponse(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("parsing agent response: %w", err)
	}
	return nil
}
