package collectors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/ratelimit"
)

type stubCollector struct {
	name   string
	events []domain.Event
	err    error
}

func (s stubCollector) Name() string { return s.name }

func (s stubCollector) Collect(_ context.Context) ([]domain.Event, error) {
	return s.events, s.err
}

func TestCollectAll_MergesResults(t *testing.T) {
	set := &Set{Collectors: []Collector{
		stubCollector{name: "a", events: []domain.Event{{ID: "e1"}, {ID: "e2"}}},
		stubCollector{name: "b", events: []domain.Event{{ID: "e3"}}},
	}}

	events := set.CollectAll(context.Background())
	assert.Len(t, events, 3)
}

func TestCollectAll_FailedCollectorIsIsolated(t *testing.T) {
	set := &Set{Collectors: []Collector{
		stubCollector{name: "broken", err: errors.New("upstream down")},
		stubCollector{name: "ok", events: []domain.Event{{ID: "e1"}}},
	}}

	events := set.CollectAll(context.Background())
	assert.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}

func TestCollectAll_RateLimitedCollectorContributesNothing(t *testing.T) {
	limiter := ratelimit.New(1, time.Minute)
	limiter.Allow("collector:limited")

	set := &Set{
		Limiter: limiter,
		Collectors: []Collector{
			stubCollector{name: "limited", events: []domain.Event{{ID: "e1"}}},
			stubCollector{name: "fresh", events: []domain.Event{{ID: "e2"}}},
		},
	}

	events := set.CollectAll(context.Background())
	assert.Len(t, events, 1)
	assert.Equal(t, "e2", events[0].ID)
}

func TestInferTopics(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "technology_keywords",
			text: "Critical Kubernetes vulnerability discovered",
			want: []string{"technology"},
		},
		{
			name: "multiple_topics",
			text: "Startup raises funding for machine learning cloud platform",
			want: []string{"ai", "cloud", "finance", "startups"},
		},
		{
			name: "no_match",
			text: "Local bakery opens new branch",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ElementsMatch(t, tc.want, inferTopics(tc.text))
		})
	}
}
