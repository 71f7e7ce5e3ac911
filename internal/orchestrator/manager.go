// Package orchestrator sequences the decision stages into one pass per
// (event, user) pair: input guard, noise filter, classification, thread
// linking, summarization, output guard, relevance scoring and the review
// decision. Any gating failure or stage fault short-circuits to a nil
// result; the orchestrator never raises.
package orchestrator

import (
	"context"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/agents"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/guardrails"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/review"
)

type NoiseFilter interface {
	Filter(ctx context.Context, event domain.Event, user domain.User) (agents.NoiseResult, error)
}

type Classifier interface {
	Classify(ctx context.Context, event domain.Event) (agents.Classification, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, event domain.Event, user domain.User) (domain.Summary, error)
}

type RelevanceScorer interface {
	Score(ctx context.Context, event domain.Event, user domain.User) (agents.RelevanceResult, error)
}

// ThreadLinker attaches the event to a matching thread or creates one.
// Linking is a side effect: it never gates the pipeline.
type ThreadLinker interface {
	LinkEvent(ctx context.Context, event domain.Event) (string, error)
}

type ReviewEnqueuer interface {
	AddToQueue(ctx context.Context, event domain.Event, reason string) (domain.Event, error)
}

type Manager struct {
	Noise      NoiseFilter
	Classifier Classifier
	Threads    ThreadLinker
	Summarizer Summarizer
	Relevance  RelevanceScorer
	Reviews    ReviewEnqueuer
	Events     datasources.EventProcessingUpdater
}

// Process runs one event through the full stage sequence for one user,
// mutating the event in place on success. Returns nil when any gating stage
// rejects the event or any stage faults; faults are logged, never raised.
func (m *Manager) Process(ctx context.Context, event *domain.Event, user domain.User) *domain.ProcessingResult {
	logger := domain.LoggerFromContext(ctx).With("event_id", event.ID, "user_id", user.ID)
	ctx = domain.ContextWithLogger(ctx, logger)

	if check := guardrails.CheckInput(*event, user); !check.Valid {
		logger.DebugContext(ctx, "rejected by input guard", "reason", check.Reason)
		return nil
	}

	noise, err := m.Noise.Filter(ctx, *event, user)
	if err != nil {
		logger.ErrorContext(ctx, "noise filter stage failed", "error", err)
		return nil
	}
	if !noise.Passes() {
		logger.DebugContext(ctx, "filtered as noise", "score", noise.Score, "reason", noise.Reason)
		return nil
	}
	event.NoiseScore = noise.Score
	event.ImportanceScore = noise.Score

	classification, err := m.Classifier.Classify(ctx, *event)
	if err != nil {
		logger.ErrorContext(ctx, "classification stage failed", "error", err)
		return nil
	}
	event.Category = classification.Category
	event.Topics = classification.Topics

	if slug, err := m.Threads.LinkEvent(ctx, *event); err != nil {
		logger.WarnContext(ctx, "thread linking failed", "error", err)
	} else {
		logger.DebugContext(ctx, "event linked to thread", "slug", slug)
	}

	summary, err := m.Summarizer.Summarize(ctx, *event, user)
	if err != nil {
		logger.ErrorContext(ctx, "summarization stage failed", "error", err)
		return nil
	}
	if check := guardrails.CheckOutput(summary); !check.Valid {
		logger.InfoContext(ctx, "failed output guard", "errors", check.Errors)
		return nil
	}
	event.Summary = &summary

	relevance, err := m.Relevance.Score(ctx, *event, user)
	if err != nil {
		logger.ErrorContext(ctx, "relevance scoring failed", "error", err)
		return nil
	}
	logger.DebugContext(ctx, "relevance scored",
		"score", relevance.Score,
		"base", relevance.Breakdown.Base,
		"keyword_boost", relevance.Breakdown.KeywordBoost,
		"feedback_adjustment", relevance.Breakdown.FeedbackAdjustment,
		"topic_alignment", relevance.Breakdown.TopicAlignment,
	)

	decision := review.Evaluate(*event, relevance.Score)
	event.NeedsHumanReview = decision.Escalate
	event.AIProcessed = true

	if decision.Escalate {
		queued, err := m.Reviews.AddToQueue(ctx, *event, decision.Reason)
		if err != nil {
			logger.ErrorContext(ctx, "review escalation failed", "error", err)
			return nil
		}
		*event = queued
	}

	if err := m.Events.UpdateEventProcessing(ctx, *event); err != nil {
		logger.ErrorContext(ctx, "persisting processed event failed", "error", err)
		return nil
	}

	return &domain.ProcessingResult{
		Success:          true,
		NeedsHumanReview: decision.Escalate,
		Category:         event.Category,
		Topics:           event.Topics,
		Summary:          summary,
		ImportanceScore:  event.ImportanceScore,
		NoiseScore:       event.NoiseScore,
		RelevanceScore:   relevance.Score,
	}
}
