package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/command"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

type EventRatingSet struct {
	RateCmd command.Command[command.SetEventRatingRequest, command.Empty]
}

type eventRatingSetRequest struct {
	Rating int `json:"rating"`
}

func (c EventRatingSet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["user_id"]
	eventID := vars["event_id"]
	logger := domain.LoggerFromContext(r.Context()).With("user_id", userID, "event_id", eventID)
	ctx := domain.ContextWithLogger(r.Context(), logger)

	var body eventRatingSetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.ErrorContext(ctx, "unable to parse rating request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if body.Rating != 1 && body.Rating != 3 && body.Rating != 5 {
		logger.ErrorContext(ctx, "invalid rating value", "rating", body.Rating)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	_, err := c.RateCmd.Execute(ctx, command.SetEventRatingRequest{
		UserID:  userID,
		EventID: eventID,
		Rating:  body.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, datasources.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			logger.ErrorContext(ctx, "failed to set event rating", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
