package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/command"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/review"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/transport/web/controller"
)

func MakeRouter(
	events datasources.EventRepository,
	userEvents datasources.UserEventRepository,
	users datasources.UserFetcher,
	reviewQueue *review.Queue,
	runPipelineCmd *command.RunUserPipeline,
	clearUserDataCmd *command.ClearUserData,
	setEventRatingCmd *command.SetEventRating,
	feedHostname string,
	digestCacheMaxAge time.Duration,
	authMiddleware func(http.Handler) http.Handler,
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(authMiddleware)

	r.Handle("/v1/users/{user_id}/pipeline/run", controller.PipelineRun{
		RunCmd: runPipelineCmd,
	}).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/users/{user_id}/data", controller.UserDataClear{
		Users:    users,
		ClearCmd: clearUserDataCmd,
	}).Methods(http.MethodDelete, http.MethodOptions)

	r.Handle("/v1/users/{user_id}/events/{event_id}/rating", controller.EventRatingSet{
		RateCmd: setEventRatingCmd,
	}).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/users/{user_id}/digest.rss", controller.DigestRSS{
		FeedHostname: feedHostname,
		Users:        users,
		UserEvents:   userEvents,
		Events:       events,
		CacheMaxAge:  digestCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/reviews/pending", controller.ReviewsPendingList{
		Queue: reviewQueue,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/reviews/stats", controller.ReviewsStats{
		Queue: reviewQueue,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/reviews/{event_id}/approve", controller.ReviewApprove{
		Queue: reviewQueue,
	}).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/reviews/{event_id}/reject", controller.ReviewReject{
		Queue: reviewQueue,
	}).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/reviews/{event_id}/edit", controller.ReviewEdit{
		Queue: reviewQueue,
	}).Methods(http.MethodPost, http.MethodOptions)

	return r, nil
}
