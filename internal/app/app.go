package app

import (
	"context"
	"fmt"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/agents"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/collectors"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/command"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources/mysql"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources/openai"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/dedup"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/orchestrator"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/ratelimit"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/review"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/threads"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/transport/web/router"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/transport/web/server"
)

type Component interface {
	Run(ctx context.Context) error
}

func Setup(ctx context.Context) ([]Component, error) {
	db, err := mysql.Connect(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"))
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL: %w", err)
	}
	repo := mysql.New(db)

	limiter := ratelimit.New(
		MustGetEnvAsInt(ctx, "RATE_LIMIT_MAX_REQUESTS"),
		MustGetEnvAsDuration(ctx, "RATE_LIMIT_WINDOW"),
	)

	llm := openai.NewClient(
		MustGetEnvAsString(ctx, "OPENAI_API_KEY"),
		MustGetEnvAsString(ctx, "OPENAI_MODEL"),
		MustGetEnvAsDuration(ctx, "OPENAI_TIMEOUT"),
		limiter,
	)

	deduplicator := dedup.New(repo, repo)
	threadManager := threads.NewManager(repo, repo)
	reviewQueue := review.NewQueue(repo, repo, nil)

	manager := &orchestrator.Manager{
		Noise:      &agents.NoiseFilter{LLM: llm},
		Classifier: &agents.Classifier{LLM: llm},
		Threads:    threadManager,
		Summarizer: &agents.Summarizer{LLM: llm},
		Relevance:  &agents.RelevanceScorer{Ratings: repo},
		Reviews:    reviewQueue,
		Events:     repo,
	}

	collectorSet := setupCollectors(ctx, limiter)

	runPipelineCmd := command.NewRunUserPipeline(
		repo, repo, repo, repo, deduplicator, collectorSet, manager,
	)
	clearUserDataCmd := command.NewClearUserData(repo, repo)
	setEventRatingCmd := command.NewSetEventRating(repo)

	authMiddleware := router.NewAdminTokenMiddleware(MustGetEnvAsString(ctx, "ADMIN_API_TOKEN"))

	httpRouter, err := router.MakeRouter(
		repo,
		repo,
		repo,
		reviewQueue,
		runPipelineCmd,
		clearUserDataCmd,
		setEventRatingCmd,
		MustGetEnvAsString(ctx, "FEED_BASE_URL"),
		MustGetEnvAsDuration(ctx, "DIGEST_CACHE_MAX_AGE"),
		authMiddleware,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	return []Component{
		&server.Server{
			TLSDisabled:      MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED"),
			TLSDisabledPort:  MustGetEnvAsInt(ctx, "PORT"),
			AutocertHostname: MustGetEnvAsString(ctx, "HTTP_AUTOCERT_HOSTNAME"),
			Router:           httpRouter,
		},
	}, nil
}

func setupCollectors(ctx context.Context, limiter *ratelimit.Limiter) *collectors.Set {
	set := &collectors.Set{Limiter: limiter}

	if feedURLs := MustGetEnvAsStrings(ctx, "COLLECTOR_RSS_FEEDS"); len(feedURLs) > 0 {
		set.Collectors = append(set.Collectors, collectors.NewRSS(feedURLs))
	}

	if MustGetEnvAsBoolean(ctx, "COLLECTOR_HACKERNEWS_ENABLED") {
		set.Collectors = append(set.Collectors, collectors.NewHackerNews())
	}

	if repos := MustGetEnvAsStrings(ctx, "COLLECTOR_GITHUB_REPOS"); len(repos) > 0 {
		set.Collectors = append(set.Collectors, collectors.NewGitHub(
			repos,
			GetEnvAsStringWithDefault("COLLECTOR_GITHUB_TOKEN", ""),
		))
	}

	return set
}
