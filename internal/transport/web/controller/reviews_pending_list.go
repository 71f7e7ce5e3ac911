package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/review"
)

const defaultPendingReviewLimit = 50

type PendingReviewLister interface {
	PendingReviews(ctx context.Context, limit int) ([]review.PendingReview, error)
}

type ReviewsPendingList struct {
	Queue PendingReviewLister
}

type ReviewsPendingListResponse struct {
	Data []review.PendingReview `json:"data"`
}

func (c ReviewsPendingList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	limit := defaultPendingReviewLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			logger.ErrorContext(ctx, "invalid limit in query string", "limit", q)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	reviews, err := c.Queue.PendingReviews(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "unable to list pending reviews", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []review.PendingReview{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ReviewsPendingListResponse{Data: reviews}); err != nil {
		logger.ErrorContext(ctx, "unable to write pending reviews to response", "error", err)
	}
}
