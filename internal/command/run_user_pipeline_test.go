package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/dedup"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

type fakeUsers struct {
	user domain.User
	err  error
}

func (f *fakeUsers) FetchUser(_ context.Context, _ string) (domain.User, error) {
	return f.user, f.err
}

type fakeEventStore struct {
	saved        []domain.Event
	recent       []domain.Event
	duplicateIDs map[string]bool
	listErr      error
}

func (f *fakeEventStore) SaveEvent(_ context.Context, event domain.Event) error {
	if f.duplicateIDs[event.SourceID] {
		return datasources.ErrDuplicateEvent
	}
	f.saved = append(f.saved, event)
	return nil
}

func (f *fakeEventStore) ListRecentEvents(_ context.Context, _ int) ([]domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.recent, nil
}

type fakeUserEventStore struct {
	created []domain.UserEvent
	unsent  []domain.UserEvent
}

func (f *fakeUserEventStore) CreateUserEvent(_ context.Context, userEvent domain.UserEvent) error {
	f.created = append(f.created, userEvent)
	return nil
}

func (f *fakeUserEventStore) ListUnsentUserEvents(_ context.Context, _ string) ([]domain.UserEvent, error) {
	return f.unsent, nil
}

// fakeStates is an in-memory UserStateRepository recording every phase
// transition.
type fakeStates struct {
	state  domain.UserProcessingState
	phases []domain.Phase
}

func (f *fakeStates) FetchUserState(_ context.Context, _ string) (domain.UserProcessingState, error) {
	return f.state, nil
}

func (f *fakeStates) UpdateUserState(
	_ context.Context, userID, email string, transform func(*domain.UserProcessingState),
) (domain.UserProcessingState, error) {
	f.state.UserID = userID
	f.state.Email = email
	before := f.state.Current.CurrentPhase
	transform(&f.state)
	if f.state.Current.CurrentPhase != before {
		f.phases = append(f.phases, f.state.Current.CurrentPhase)
	}
	return f.state, nil
}

type fakeEventFinder struct {
	err error
}

func (f *fakeEventFinder) FindEventBySourceID(_ context.Context, _ domain.Source, _ string) (*domain.Event, error) {
	return nil, f.err
}

func (f *fakeEventFinder) FindEventByURL(_ context.Context, _ string) (*domain.Event, error) {
	return nil, f.err
}

func (f *fakeEventFinder) FindEventsByTitleSubstring(_ context.Context, _ string, _ int) ([]domain.Event, error) {
	return nil, f.err
}

type fakeCollector struct {
	events []domain.Event
}

func (f *fakeCollector) CollectAll(_ context.Context) []domain.Event {
	return f.events
}

type fakeProcessor struct {
	results map[string]*domain.ProcessingResult
	calls   []string
}

func (f *fakeProcessor) Process(_ context.Context, event *domain.Event, _ domain.User) *domain.ProcessingResult {
	f.calls = append(f.calls, event.ID)
	return f.results[event.ID]
}

type pipelineFixture struct {
	users      *fakeUsers
	events     *fakeEventStore
	userEvents *fakeUserEventStore
	states     *fakeStates
	finder     *fakeEventFinder
	collector  *fakeCollector
	processor  *fakeProcessor
	cmd        *RunUserPipeline
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		users:      &fakeUsers{user: domain.User{ID: "u1", Email: "u1@example.com"}},
		events:     &fakeEventStore{duplicateIDs: map[string]bool{}},
		userEvents: &fakeUserEventStore{},
		states:     &fakeStates{},
		finder:     &fakeEventFinder{},
		collector:  &fakeCollector{},
		processor:  &fakeProcessor{results: map[string]*domain.ProcessingResult{}},
	}
	f.cmd = NewRunUserPipeline(
		f.users, f.events, f.userEvents, f.states,
		dedup.New(f.finder, f.states),
		f.collector, f.processor,
	)
	return f
}

func TestRunUserPipeline_FullRun(t *testing.T) {
	f := newPipelineFixture()
	f.collector.events = []domain.Event{
		{ID: "e1", SourceID: "s1", Title: "fresh event"},
		{ID: "e2", SourceID: "s2", Title: "already stored"},
	}
	f.events.duplicateIDs["s2"] = true
	f.events.recent = []domain.Event{{ID: "e1", SourceID: "s1", Title: "fresh event"}}
	f.processor.results["e1"] = &domain.ProcessingResult{Success: true, RelevanceScore: 6.3}
	f.userEvents.unsent = []domain.UserEvent{{UserID: "u1", EventID: "e1"}}

	result, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Collection.Total)
	assert.Equal(t, 1, result.Collection.NewSaved)
	assert.Equal(t, 1, result.Collection.GlobalDuplicates)
	assert.Equal(t, 1, result.Processing.Processed)
	assert.Equal(t, 0, result.Processing.Errors)
	assert.Equal(t, 1, result.Email.Sent)

	require.Len(t, f.userEvents.created, 1)
	created := f.userEvents.created[0]
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "e1", created.EventID)
	assert.InDelta(t, 6.3, created.RelevanceScore, 0.0001)
	assert.False(t, created.Sent, "delivery is external; records are handed off unsent")

	assert.True(t, f.states.state.IsEventProcessed("e1"))
	assert.Equal(t, []domain.Phase{
		domain.PhaseCollecting,
		domain.PhaseDeduplicating,
		domain.PhaseProcessing,
		domain.PhaseSending,
		domain.PhaseIdle,
	}, f.states.phases)
	assert.False(t, f.states.state.Current.IsProcessing)
}

func TestRunUserPipeline_RejectsConcurrentRun(t *testing.T) {
	f := newPipelineFixture()
	f.states.state.SetPhase(domain.PhaseProcessing, true)

	_, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.ErrorIs(t, err, ErrPipelineRunning)

	assert.True(t, f.states.state.Current.IsProcessing, "running state is left untouched")
}

func TestRunUserPipeline_UserNotFound(t *testing.T) {
	f := newPipelineFixture()
	f.users.err = datasources.ErrNotFound

	_, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "missing"})
	require.ErrorIs(t, err, datasources.ErrNotFound)
}

func TestRunUserPipeline_FilteredEventsMarkedProcessed(t *testing.T) {
	f := newPipelineFixture()
	f.events.recent = []domain.Event{{ID: "noisy", Title: "low signal"}}
	// No processor result configured: the stage sequence filtered it out.

	result, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processing.Processed)
	assert.Empty(t, f.userEvents.created)
	assert.True(t, f.states.state.IsEventProcessed("noisy"), "filtered events are never retried")

	// A second run skips it entirely.
	f.processor.calls = nil
	_, err = f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, f.processor.calls)
}

func TestRunUserPipeline_AbortsOnDuplicateCheckFailure(t *testing.T) {
	f := newPipelineFixture()
	f.collector.events = []domain.Event{{ID: "e1", SourceID: "s1", Title: "fresh event"}}
	f.finder.err = errors.New("storage down")

	_, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.Error(t, err)

	assert.Empty(t, f.events.saved, "nothing is saved once the duplicate check faults")
	assert.Empty(t, f.userEvents.created)
	assert.Equal(t, domain.PhaseIdle, f.states.state.Current.CurrentPhase)
	assert.False(t, f.states.state.Current.IsProcessing)
	require.NotEmpty(t, f.states.state.RecentErrors)
	assert.Equal(t, domain.PhaseDeduplicating, f.states.state.RecentErrors[0].Phase)
}

func TestRunUserPipeline_EmailStatCountsOnlyNewHandoffs(t *testing.T) {
	f := newPipelineFixture()
	f.events.recent = []domain.Event{{ID: "e1", SourceID: "s1", Title: "fresh event"}}
	f.processor.results["e1"] = &domain.ProcessingResult{Success: true, RelevanceScore: 6.3}
	f.userEvents.unsent = []domain.UserEvent{{UserID: "u1", EventID: "e1"}}

	_, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.states.state.Stats.EmailsSent)

	// The backlog is still unsent on the next run; only fresh handoffs
	// count.
	result, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Email.Sent)
	assert.Equal(t, 1, f.states.state.Stats.EmailsSent)
}

func TestRunUserPipeline_ReturnsToIdleOnListFailure(t *testing.T) {
	f := newPipelineFixture()
	f.events.listErr = errors.New("db down")

	_, err := f.cmd.Execute(context.Background(), RunUserPipelineRequest{UserID: "u1"})
	require.Error(t, err)

	assert.Equal(t, domain.PhaseIdle, f.states.state.Current.CurrentPhase)
	assert.False(t, f.states.state.Current.IsProcessing)
	require.NotEmpty(t, f.states.state.RecentErrors)
	assert.Equal(t, domain.PhaseProcessing, f.states.state.RecentErrors[0].Phase)
}
