package guardrails

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

const (
	maxTLDRLen   = 200
	maxBulletLen = 300
)

// hedgingPhrases in generated output signal hallucination or uncertainty
// and are a hard rejection.
var hedgingPhrases = []string{
	"i think", "probably", "might be", "could be",
	"not sure", "unclear", "seems like",
}

// OutputCheck accumulates every violation found in a summary rather than
// stopping at the first.
type OutputCheck struct {
	Valid  bool
	Errors []string
}

// CheckOutput validates a generated summary before it can reach a user.
func CheckOutput(summary domain.Summary) OutputCheck {
	var errs []string

	if summary.TLDR == "" {
		errs = append(errs, "missing tldr")
	}
	if len(summary.Bullets) == 0 {
		errs = append(errs, "missing bullet points")
	}
	if utf8.RuneCountInString(summary.TLDR) > maxTLDRLen {
		errs = append(errs, fmt.Sprintf("tldr too long (max %d chars)", maxTLDRLen))
	}
	for i, bullet := range summary.Bullets {
		if utf8.RuneCountInString(bullet) > maxBulletLen {
			errs = append(errs, fmt.Sprintf("bullet %d too long (max %d chars)", i+1, maxBulletLen))
		}
	}

	text := strings.ToLower(summary.TLDR + " " + strings.Join(summary.Bullets, " "))
	for _, phrase := range hedgingPhrases {
		if strings.Contains(text, phrase) {
			errs = append(errs, "output contains uncertain language")
			break
		}
	}

	return OutputCheck{Valid: len(errs) == 0, Errors: errs}
}
