// Package collectors produces raw events from external feeds. Each
// collector returns a finite sequence per run; the pipeline treats the
// output as opaque candidates for dedup and processing.
package collectors

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/ratelimit"
)

type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]domain.Event, error)
}

// Set runs all configured collectors in parallel. A failed or rate-limited
// collector contributes zero events; it never aborts the run.
type Set struct {
	Collectors []Collector
	Limiter    *ratelimit.Limiter
}

func (s *Set) CollectAll(ctx context.Context) []domain.Event {
	logger := domain.LoggerFromContext(ctx)

	var mu sync.Mutex
	var all []domain.Event

	grp, grpCtx := errgroup.WithContext(ctx)
	for _, c := range s.Collectors {
		c := c
		grp.Go(func() error {
			if s.Limiter != nil {
				if decision := s.Limiter.Allow("collector:" + c.Name()); !decision.Allowed {
					logger.WarnContext(grpCtx, "collector rate limited",
						"collector", c.Name(), "retry_after", decision.RetryAfter)
					return nil
				}
			}

			events, err := c.Collect(grpCtx)
			if err != nil {
				logger.WarnContext(grpCtx, "collector failed", "collector", c.Name(), "error", err)
				return nil
			}

			mu.Lock()
			all = append(all, events...)
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()

	logger.InfoContext(ctx, "collection finished", "total_events", len(all))
	return all
}

// inferTopics tags a raw event with coarse topics from keyword spotting so
// thread clustering has something to work with before classification runs.
func inferTopics(parts ...string) []string {
	text := strings.ToLower(strings.Join(parts, " "))

	var topics []string
	add := func(topic string) {
		for _, t := range topics {
			if t == topic {
				return
			}
		}
		topics = append(topics, topic)
	}

	if containsAny(text, "react", "vue", "javascript", "golang", "kubernetes", "security", "vulnerability") {
		add("technology")
	}
	if containsAny(text, " ai ", "machine learning", "gpt", "llm") {
		add("ai")
	}
	if containsAny(text, "cloud", "aws", "azure", "gcp") {
		add("cloud")
	}
	if containsAny(text, "politics", "government", "regulation") {
		add("politics")
	}
	if containsAny(text, "funding", "valuation", "ipo", "markets") {
		add("finance")
	}
	if containsAny(text, "startup", "founder", "seed round") {
		add("startups")
	}
	return topics
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
