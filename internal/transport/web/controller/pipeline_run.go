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

type PipelineRun struct {
	RunCmd command.Command[command.RunUserPipelineRequest, command.RunUserPipelineResult]
}

func (c PipelineRun) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	logger := domain.LoggerFromContext(r.Context()).With("user_id", userID)
	ctx := domain.ContextWithLogger(r.Context(), logger)

	result, err := c.RunCmd.Execute(ctx, command.RunUserPipelineRequest{UserID: userID})
	if err != nil {
		switch {
		case errors.Is(err, datasources.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, command.ErrPipelineRunning):
			w.WriteHeader(http.StatusConflict)
		default:
			logger.ErrorContext(ctx, "pipeline run failed", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.ErrorContext(ctx, "unable to write pipeline result to response", "error", err)
	}
}
