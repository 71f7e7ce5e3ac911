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

type UserDataClear struct {
	Users    datasources.UserFetcher
	ClearCmd command.Command[command.ClearUserDataRequest, command.ClearUserDataResult]
}

func (c UserDataClear) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	logger := domain.LoggerFromContext(r.Context()).With("user_id", userID)
	ctx := domain.ContextWithLogger(r.Context(), logger)

	user, err := c.Users.FetchUser(ctx, userID)
	if err != nil {
		if errors.Is(err, datasources.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "unable to fetch user", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	result, err := c.ClearCmd.Execute(ctx, command.ClearUserDataRequest{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to clear user data", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.ErrorContext(ctx, "unable to write clear result to response", "error", err)
	}
}
