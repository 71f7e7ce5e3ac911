package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/command"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

type fakeRunPipelineCmd struct {
	result command.RunUserPipelineResult
	err    error

	gotUserID string
}

func (f *fakeRunPipelineCmd) Execute(
	_ context.Context, req command.RunUserPipelineRequest,
) (command.RunUserPipelineResult, error) {
	f.gotUserID = req.UserID
	return f.result, f.err
}

func TestPipelineRun(t *testing.T) {
	cmd := &fakeRunPipelineCmd{
		result: command.RunUserPipelineResult{
			Collection: command.CollectionSummary{Total: 5, NewSaved: 3, GlobalDuplicates: 2},
			Processing: command.ProcessingSummary{Processed: 3},
			Email:      command.EmailSummary{Sent: 3},
		},
	}
	handler := PipelineRun{RunCmd: cmd}

	r := mux.NewRouter()
	r.Handle("/v1/users/{user_id}/pipeline/run", handler).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/v1/users/u1/pipeline/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", cmd.gotUserID)

	var got command.RunUserPipelineResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, cmd.result, got)
}

func TestPipelineRun_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "user_not_found", err: datasources.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "already_running", err: command.ErrPipelineRunning, wantCode: http.StatusConflict},
		{name: "internal_failure", err: assert.AnError, wantCode: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := PipelineRun{RunCmd: &fakeRunPipelineCmd{err: tc.err}}

			r := mux.NewRouter()
			r.Handle("/v1/users/{user_id}/pipeline/run", handler).Methods(http.MethodPost)

			req := httptest.NewRequest(http.MethodPost, "/v1/users/u1/pipeline/run", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

type fakeRateCmd struct {
	err error

	gotReq command.SetEventRatingRequest
}

func (f *fakeRateCmd) Execute(_ context.Context, req command.SetEventRatingRequest) (command.Empty, error) {
	f.gotReq = req
	return command.Empty{}, f.err
}

func TestEventRatingSet(t *testing.T) {
	cmd := &fakeRateCmd{}
	handler := EventRatingSet{RateCmd: cmd}

	r := mux.NewRouter()
	r.Handle("/v1/users/{user_id}/events/{event_id}/rating", handler).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/users/u1/events/e1/rating", strings.NewReader(`{"rating": 5}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, command.SetEventRatingRequest{UserID: "u1", EventID: "e1", Rating: 5}, cmd.gotReq)
}

func TestEventRatingSet_InvalidRating(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "out_of_scale", body: `{"rating": 4}`},
		{name: "zero", body: `{"rating": 0}`},
		{name: "not_json", body: `five`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := EventRatingSet{RateCmd: &fakeRateCmd{}}

			r := mux.NewRouter()
			r.Handle("/v1/users/{user_id}/events/{event_id}/rating", handler).Methods(http.MethodPost)

			req := httptest.NewRequest(http.MethodPost,
				"/v1/users/u1/events/e1/rating", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

type fakeApprover struct {
	event domain.Event
	err   error

	gotReviewer string
}

func (f *fakeApprover) Approve(_ context.Context, _ string, reviewer string) (domain.Event, error) {
	f.gotReviewer = reviewer
	return f.event, f.err
}

func TestReviewApprove(t *testing.T) {
	approver := &fakeApprover{event: domain.Event{ID: "e1", ReviewStatus: domain.ReviewStatusApproved}}
	handler := ReviewApprove{Queue: approver}

	r := mux.NewRouter()
	r.Handle("/v1/reviews/{event_id}/approve", handler).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost,
		"/v1/reviews/e1/approve", strings.NewReader(`{"reviewer": "alex"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alex", approver.gotReviewer)
}

type fakeUserFetcher struct {
	user domain.User
	err  error
}

func (f *fakeUserFetcher) FetchUser(_ context.Context, _ string) (domain.User, error) {
	return f.user, f.err
}

type fakeUnsentLister struct {
	unsent []domain.UserEvent
}

func (f *fakeUnsentLister) ListUnsentUserEvents(_ context.Context, _ string) ([]domain.UserEvent, error) {
	return f.unsent, nil
}

type fakeEventFetcher struct {
	events []domain.Event
}

func (f *fakeEventFetcher) FetchEvent(_ context.Context, _ string) (domain.Event, error) {
	return domain.Event{}, datasources.ErrNotFound
}

func (f *fakeEventFetcher) FetchEventsByID(_ context.Context, _ []string) ([]domain.Event, error) {
	return f.events, nil
}

func TestDigestRSS_HoldsEventsAwaitingReview(t *testing.T) {
	handler := DigestRSS{
		FeedHostname: "https://feeds.example.com",
		Users:        &fakeUserFetcher{user: domain.User{ID: "u1", Email: "u1@example.com"}},
		UserEvents: &fakeUnsentLister{unsent: []domain.UserEvent{
			{UserID: "u1", EventID: "e1"},
			{UserID: "u1", EventID: "e2"},
			{UserID: "u1", EventID: "e3"},
		}},
		Events: &fakeEventFetcher{events: []domain.Event{
			{ID: "e1", Title: "Delivered as-is", URL: "https://example.com/1"},
			{
				ID:               "e2",
				Title:            "Held for approval",
				URL:              "https://example.com/2",
				NeedsHumanReview: true,
				ReviewStatus:     domain.ReviewStatusPending,
			},
			{
				ID:           "e3",
				Title:        "Approved after review",
				URL:          "https://example.com/3",
				ReviewStatus: domain.ReviewStatusApproved,
			},
		}},
	}

	r := mux.NewRouter()
	r.Handle("/v1/users/{user_id}/digest.rss", handler).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/digest.rss", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Delivered as-is")
	assert.Contains(t, body, "Approved after review")
	assert.NotContains(t, body, "Held for approval")
}

func TestReviewApprove_DefaultsReviewerAndMapsNotFound(t *testing.T) {
	approver := &fakeApprover{err: datasources.ErrNotFound}
	handler := ReviewApprove{Queue: approver}

	r := mux.NewRouter()
	r.Handle("/v1/reviews/{event_id}/approve", handler).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/v1/reviews/missing/approve", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, defaultReviewer, approver.gotReviewer)
}
