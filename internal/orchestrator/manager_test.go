package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/agents"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

type fakeNoiseFilter struct {
	result agents.NoiseResult
	err    error
	calls  int
}

func (f *fakeNoiseFilter) Filter(_ context.Context, _ domain.Event, _ domain.User) (agents.NoiseResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeClassifier struct {
	result agents.Classification
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(_ context.Context, _ domain.Event) (agents.Classification, error) {
	f.calls++
	return f.result, f.err
}

type fakeSummarizer struct {
	summary domain.Summary
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ domain.Event, _ domain.User) (domain.Summary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeRelevanceScorer struct {
	result agents.RelevanceResult
	err    error
}

func (f *fakeRelevanceScorer) Score(_ context.Context, _ domain.Event, _ domain.User) (agents.RelevanceResult, error) {
	return f.result, f.err
}

type fakeThreadLinker struct {
	slug  string
	err   error
	calls int
}

func (f *fakeThreadLinker) LinkEvent(_ context.Context, _ domain.Event) (string, error) {
	f.calls++
	return f.slug, f.err
}

type fakeReviewEnqueuer struct {
	err        error
	calls      int
	lastReason string
}

func (f *fakeReviewEnqueuer) AddToQueue(_ context.Context, event domain.Event, reason string) (domain.Event, error) {
	f.calls++
	f.lastReason = reason
	if f.err != nil {
		return domain.Event{}, f.err
	}
	event.ReviewStatus = domain.ReviewStatusPending
	event.ReviewReason = reason
	return event, nil
}

type fakeEventUpdater struct {
	err   error
	calls int
	last  domain.Event
}

func (f *fakeEventUpdater) UpdateEventProcessing(_ context.Context, event domain.Event) error {
	f.calls++
	f.last = event
	return f.err
}

type managerFixture struct {
	noise      *fakeNoiseFilter
	classifier *fakeClassifier
	threads    *fakeThreadLinker
	summarizer *fakeSummarizer
	relevance  *fakeRelevanceScorer
	reviews    *fakeReviewEnqueuer
	events     *fakeEventUpdater
	manager    *Manager
}

func newManagerFixture() *managerFixture {
	f := &managerFixture{
		noise: &fakeNoiseFilter{
			result: agents.NoiseResult{Important: true, Score: 7, Reason: "newsworthy"},
		},
		classifier: &fakeClassifier{
			result: agents.Classification{
				Category:   domain.CategoryRelease,
				Topics:     []string{"technology"},
				Confidence: 0.9,
			},
		},
		threads: &fakeThreadLinker{slug: "some-thread-1"},
		summarizer: &fakeSummarizer{
			summary: domain.Summary{
				TLDR:    "A release happened.",
				Bullets: []string{"It shipped"},
			},
		},
		relevance: &fakeRelevanceScorer{
			result: agents.RelevanceResult{Score: 6.3, Breakdown: agents.RelevanceBreakdown{Base: 5}},
		},
		reviews: &fakeReviewEnqueuer{},
		events:  &fakeEventUpdater{},
	}
	f.manager = &Manager{
		Noise:      f.noise,
		Classifier: f.classifier,
		Threads:    f.threads,
		Summarizer: f.summarizer,
		Relevance:  f.relevance,
		Reviews:    f.reviews,
		Events:     f.events,
	}
	return f
}

func testEvent() domain.Event {
	return domain.Event{
		ID:      "e1",
		Title:   "Major framework release announced",
		Content: "Version 2.0 ships with breaking changes",
	}
}

func TestProcess_Success(t *testing.T) {
	f := newManagerFixture()
	event := testEvent()

	result := f.manager.Process(context.Background(), &event, domain.User{ID: "u1"})
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.False(t, result.NeedsHumanReview)
	assert.Equal(t, domain.CategoryRelease, result.Category)
	assert.Equal(t, []string{"technology"}, result.Topics)
	assert.InDelta(t, 7, result.ImportanceScore, 0.0001)
	assert.InDelta(t, 7, result.NoiseScore, 0.0001)
	assert.InDelta(t, 6.3, result.RelevanceScore, 0.0001)
	assert.Equal(t, "A release happened.", result.Summary.TLDR)

	assert.Equal(t, domain.CategoryRelease, event.Category)
	require.NotNil(t, event.Summary)
	assert.True(t, event.AIProcessed)

	assert.Equal(t, 0, f.reviews.calls)
	assert.Equal(t, 1, f.events.calls)
	assert.Equal(t, event, f.events.last)
}

func TestProcess_InputGuardShortCircuits(t *testing.T) {
	f := newManagerFixture()
	event := testEvent()
	event.Title = "hey"

	result := f.manager.Process(context.Background(), &event, domain.User{ID: "u1"})

	assert.Nil(t, result)
	assert.Equal(t, 0, f.noise.calls, "no agent runs after an input guard rejection")
	assert.Equal(t, 0, f.events.calls)
}

func TestProcess_NoiseGateShortCircuits(t *testing.T) {
	cases := []struct {
		name   string
		result agents.NoiseResult
	}{
		{name: "not_important", result: agents.NoiseResult{Important: false, Score: 9}},
		{name: "below_min_score", result: agents.NoiseResult{Important: true, Score: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newManagerFixture()
			f.noise.result = tc.result
			event := testEvent()

			result := f.manager.Process(context.Background(), &event, domain.User{ID: "u1"})

			assert.Nil(t, result)
			assert.Equal(t, 0, f.classifier.calls)
		})
	}
}

func TestProcess_StageFaultsAbsorbedToNil(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*managerFixture)
	}{
		{name: "noise_fault", mutate: func(f *managerFixture) { f.noise.err = errors.New("llm down") }},
		{name: "classify_fault", mutate: func(f *managerFixture) { f.classifier.err = errors.New("llm down") }},
		{name: "summarize_fault", mutate: func(f *managerFixture) { f.summarizer.err = errors.New("llm down") }},
		{name: "relevance_fault", mutate: func(f *managerFixture) { f.relevance.err = errors.New("db down") }},
		{name: "persist_fault", mutate: func(f *managerFixture) { f.events.err = errors.New("db down") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newManagerFixture()
			tc.mutate(f)
			event := testEvent()

			assert.Nil(t, f.manager.Process(context.Background(), &event, domain.User{ID: "u1"}))
		})
	}
}

func TestProcess_ThreadLinkFailureDoesNotGate(t *testing.T) {
	f := newManagerFixture()
	f.threads.err = errors.New("thread store down")
	event := testEvent()

	result := f.manager.Process(context.Background(), &event, domain.User{ID: "u1"})

	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, 1, f.threads.calls)
}

func TestProcess_OutputGuardShortCircuits(t *testing.T) {
	f := newManagerFixture()
	f.summarizer.summary = domain.Summary{TLDR: "This might be something.", Bullets: []string{"a"}}
	event := testEvent()

	result := f.manager.Process(context.Background(), &event, domain.User{ID: "u1"})

	assert.Nil(t, result)
	assert.Equal(t, 0, f.events.calls)
}

func TestProcess_EscalatesToReview(t *testing.T) {
	f := newManagerFixture()
	f.noise.result = agents.NoiseResult{Important: true, Score: 9.5}
	event := testEvent()

	result := f.manager.Process(context.Background(), &event, domain.User{ID: "u1"})
	require.NotNil(t, result)

	assert.True(t, result.NeedsHumanReview)
	assert.Equal(t, 1, f.reviews.calls)
	assert.Equal(t, "High importance score (>=9)", f.reviews.lastReason)
	assert.Equal(t, domain.ReviewStatusPending, event.ReviewStatus)
	assert.Equal(t, 1, f.events.calls, "escalated events are still persisted")
}

func TestProcess_EscalationFailureShortCircuits(t *testing.T) {
	f := newManagerFixture()
	f.noise.result = agents.NoiseResult{Important: true, Score: 9.5}
	f.reviews.err = errors.New("queue down")
	event := testEvent()

	assert.Nil(t, f.manager.Process(context.Background(), &event, domain.User{ID: "u1"}))
	assert.Equal(t, 0, f.events.calls)
}
