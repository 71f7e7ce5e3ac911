package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/review"
)

type ReviewEditor interface {
	ApplyEdit(ctx context.Context, eventID string, edit review.Edit, reviewer string) (domain.Event, error)
}

type ReviewEdit struct {
	Queue ReviewEditor
}

type reviewEditRequest struct {
	Reviewer string `json:"reviewer"`
	review.Edit
}

func (c ReviewEdit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]
	logger := domain.LoggerFromContext(r.Context()).With("event_id", eventID)
	ctx := domain.ContextWithLogger(r.Context(), logger)

	var body reviewEditRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.ErrorContext(ctx, "unable to parse edit request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Reviewer == "" {
		body.Reviewer = defaultReviewer
	}

	event, err := c.Queue.ApplyEdit(ctx, eventID, body.Edit, body.Reviewer)
	if err != nil {
		if errors.Is(err, datasources.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to edit event", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(event); err != nil {
		logger.ErrorContext(ctx, "unable to write edited event to response", "error", err)
	}
}
