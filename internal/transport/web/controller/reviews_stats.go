package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/review"
)

type ReviewStatsGetter interface {
	QueueStats(ctx context.Context) (review.Stats, error)
}

type ReviewsStats struct {
	Queue ReviewStatsGetter
}

func (c ReviewsStats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	stats, err := c.Queue.QueueStats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch review stats", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		logger.ErrorContext(ctx, "unable to write review stats to response", "error", err)
	}
}
