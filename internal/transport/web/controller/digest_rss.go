package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/gorilla/mux"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

// DigestRSS serves a user's pending digest as an RSS feed: the unsent
// delivery records ordered by relevance, joined with their events.
type DigestRSS struct {
	FeedHostname string
	Users        datasources.UserFetcher
	UserEvents   datasources.UnsentUserEventLister
	Events       datasources.EventFetcher
	CacheMaxAge  time.Duration
}

func (c DigestRSS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	logger := domain.LoggerFromContext(r.Context()).With("user_id", userID)
	ctx := domain.ContextWithLogger(r.Context(), logger)

	user, err := c.Users.FetchUser(ctx, userID)
	if err != nil {
		if errors.Is(err, datasources.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "unable to fetch user for digest", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	userEvents, err := c.UserEvents.ListUnsentUserEvents(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "unable to list unsent user events", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	eventIDs := make([]string, 0, len(userEvents))
	for _, ue := range userEvents {
		eventIDs = append(eventIDs, ue.EventID)
	}
	events, err := c.Events.FetchEventsByID(ctx, eventIDs)
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch events for digest", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	feed := &feeds.Feed{
		Title:       "Intelligence Digest",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/v1/users/%s/digest.rss", c.FeedHostname, user.ID)},
		Description: "Pending events selected for " + user.Email,
		Created:     time.Now(),
	}

	for _, event := range events {
		// Escalated events are held for human approval before delivery;
		// they join the digest once approved or edited.
		if event.NeedsHumanReview || event.ReviewStatus == domain.ReviewStatusPending {
			continue
		}

		description := event.Content
		if event.Summary != nil {
			description = event.Summary.TLDR
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          event.ID,
			IsPermaLink: "false",
			Title:       event.Title,
			Link:        &feeds.Link{Href: event.URL},
			Description: description,
			Created:     event.PublishedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		logger.ErrorContext(ctx, "unable to format digest as RSS", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if _, err := w.Write([]byte(rss)); err != nil {
		logger.ErrorContext(ctx, "unable to write digest to response", "error", err)
	}
}
