package guardrails

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

func validSummary() domain.Summary {
	return domain.Summary{
		TLDR:    "A critical vulnerability was patched.",
		Bullets: []string{"Upgrade to 2.4.1", "Exploit observed in the wild"},
		Impact:  "All deployments below 2.4.1 are affected.",
	}
}

func TestCheckOutput_Valid(t *testing.T) {
	check := CheckOutput(validSummary())
	assert.True(t, check.Valid)
	assert.Empty(t, check.Errors)
}

func TestCheckOutput_Violations(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*domain.Summary)
		wantError string
	}{
		{
			name:      "missing_tldr",
			mutate:    func(s *domain.Summary) { s.TLDR = "" },
			wantError: "missing tldr",
		},
		{
			name:      "missing_bullets",
			mutate:    func(s *domain.Summary) { s.Bullets = nil },
			wantError: "missing bullet points",
		},
		{
			name:      "tldr_too_long",
			mutate:    func(s *domain.Summary) { s.TLDR = strings.Repeat("a", 201) },
			wantError: "tldr too long (max 200 chars)",
		},
		{
			name: "bullet_too_long",
			mutate: func(s *domain.Summary) {
				s.Bullets = []string{"ok", strings.Repeat("b", 301)}
			},
			wantError: "bullet 2 too long (max 300 chars)",
		},
		{
			name:      "hedging_in_tldr",
			mutate:    func(s *domain.Summary) { s.TLDR = "This Might Be a problem." },
			wantError: "output contains uncertain language",
		},
		{
			name: "hedging_in_bullet",
			mutate: func(s *domain.Summary) {
				s.Bullets = []string{"not sure what changed"}
			},
			wantError: "output contains uncertain language",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary := validSummary()
			tc.mutate(&summary)

			check := CheckOutput(summary)
			assert.False(t, check.Valid)
			assert.Contains(t, check.Errors, tc.wantError)
		})
	}
}

func TestCheckOutput_LengthLimitsCountRunes(t *testing.T) {
	summary := validSummary()
	summary.TLDR = strings.Repeat("界", 200)
	summary.Bullets = []string{strings.Repeat("界", 300)}

	check := CheckOutput(summary)
	assert.True(t, check.Valid, "multibyte text at the limit passes")

	summary.TLDR = strings.Repeat("界", 201)
	check = CheckOutput(summary)
	assert.Contains(t, check.Errors, "tldr too long (max 200 chars)")
}

func TestCheckOutput_AccumulatesAllViolations(t *testing.T) {
	check := CheckOutput(domain.Summary{})
	require.False(t, check.Valid)
	assert.Len(t, check.Errors, 2)
	assert.Contains(t, check.Errors, "missing tldr")
	assert.Contains(t, check.Errors, "missing bullet points")
}
