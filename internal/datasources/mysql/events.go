package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

var eventColumns = []string{
	"id", "source", "source_id", "title", "content", "url", "published_at",
	"category", "topics", "importance_score", "noise_score", "summary",
	"needs_human_review", "review_status", "review_reason", "reviewed_by",
	"ai_processed", "created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var (
		event                      domain.Event
		sourceID, content, url     sql.NullString
		publishedAt                sql.NullTime
		topics, summary            sql.NullString
		category, status           sql.NullString
		reviewReason, reviewedBy   sql.NullString
	)

	err := row.Scan(
		&event.ID, &event.Source, &sourceID, &event.Title, &content, &url,
		&publishedAt, &category, &topics, &event.ImportanceScore,
		&event.NoiseScore, &summary, &event.NeedsHumanReview, &status,
		&reviewReason, &reviewedBy, &event.AIProcessed, &event.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}

	event.SourceID = sourceID.String
	event.Content = content.String
	event.URL = url.String
	if publishedAt.Valid {
		event.PublishedAt = publishedAt.Time
	}
	event.Category = domain.Category(category.String)
	event.ReviewStatus = domain.ReviewStatus(status.String)
	event.ReviewReason = reviewReason.String
	event.ReviewedBy = reviewedBy.String

	if err := unmarshalColumn(topics, &event.Topics); err != nil {
		return domain.Event{}, fmt.Errorf("decoding event topics: %w", err)
	}
	if summary.Valid {
		event.Summary = &domain.Summary{}
		if err := unmarshalColumn(summary, event.Summary); err != nil {
			return domain.Event{}, fmt.Errorf("decoding event summary: %w", err)
		}
	}

	return event, nil
}

func (r *Repository) SaveEvent(ctx context.Context, event domain.Event) error {
	topics, err := marshalColumn(event.Topics)
	if err != nil {
		return fmt.Errorf("encoding event topics: %w", err)
	}
	var summary sql.NullString
	if event.Summary != nil {
		summary, err = marshalColumn(event.Summary)
		if err != nil {
			return fmt.Errorf("encoding event summary: %w", err)
		}
	}

	ib := sqlbuilder.InsertInto("events")
	ib.Cols(eventColumns...)
	ib.Values(
		event.ID, string(event.Source), nullString(event.SourceID),
		event.Title, nullString(event.Content), nullString(event.URL),
		event.PublishedAt, string(event.Category), topics,
		event.ImportanceScore, event.NoiseScore, summary,
		event.NeedsHumanReview, string(event.ReviewStatus),
		event.ReviewReason, event.ReviewedBy, event.AIProcessed,
		event.CreatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return translateError(fmt.Errorf("inserting event: %w", err))
	}
	return nil
}

func (r *Repository) FetchEvent(ctx context.Context, eventID string) (domain.Event, error) {
	sb := sqlbuilder.Select(eventColumns...)
	sb.From("events")
	sb.Where(sb.Equal("id", eventID))

	query, args := sb.Build()
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, datasources.ErrNotFound
	}
	if err != nil {
		return domain.Event{}, fmt.Errorf("fetching event: %w", err)
	}
	return event, nil
}

func (r *Repository) FetchEventsByID(ctx context.Context, eventIDs []string) ([]domain.Event, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	sb := sqlbuilder.Select(eventColumns...)
	sb.From("events")
	ids := make([]any, len(eventIDs))
	for i, id := range eventIDs {
		ids[i] = id
	}
	sb.Where(sb.In("id", ids...))

	events, err := r.queryEvents(ctx, sb)
	if err != nil {
		return nil, err
	}

	// Preserve input order.
	byID := make(map[string]domain.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}
	ordered := make([]domain.Event, 0, len(events))
	for _, id := range eventIDs {
		if e, ok := byID[id]; ok {
			ordered = append(ordered, e)
		}
	}
	return ordered, nil
}

func (r *Repository) FindEventBySourceID(
	ctx context.Context, source domain.Source, sourceID string,
) (*domain.Event, error) {
	sb := sqlbuilder.Select(eventColumns...)
	sb.From("events")
	sb.Where(sb.Equal("source", string(source)), sb.Equal("source_id", sourceID))
	return r.findOneEvent(ctx, sb)
}

func (r *Repository) FindEventByURL(ctx context.Context, url string) (*domain.Event, error) {
	sb := sqlbuilder.Select(eventColumns...)
	sb.From("events")
	sb.Where(sb.Equal("url", url))
	return r.findOneEvent(ctx, sb)
}

func (r *Repository) findOneEvent(ctx context.Context, sb *sqlbuilder.SelectBuilder) (*domain.Event, error) {
	sb.Limit(1)
	query, args := sb.Build()
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding event: %w", err)
	}
	return &event, nil
}

func (r *Repository) FindEventsByTitleSubstring(
	ctx context.Context, title string, limit int,
) ([]domain.Event, error) {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(title))

	sb := sqlbuilder.Select(eventColumns...)
	sb.From("events")
	sb.Where("LOWER(title) LIKE " + sb.Args.Add("%"+escaped+"%"))
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	return r.queryEvents(ctx, sb)
}

func (r *Repository) ListRecentEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	sb := sqlbuilder.Select(eventColumns...)
	sb.From("events")
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	return r.queryEvents(ctx, sb)
}

func (r *Repository) ListPendingReviewEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	sb := sqlbuilder.Select(eventColumns...)
	sb.From("events")
	sb.Where(
		sb.Equal("needs_human_review", true),
		sb.Equal("review_status", string(domain.ReviewStatusPending)),
	)
	sb.OrderBy("importance_score DESC", "created_at DESC")
	sb.Limit(limit)

	return r.queryEvents(ctx, sb)
}

func (r *Repository) CountEventsByReviewStatus(ctx context.Context) (map[domain.ReviewStatus]int, error) {
	sb := sqlbuilder.Select("review_status", "COUNT(*)")
	sb.From("events")
	sb.Where(sb.NotEqual("review_status", ""))
	sb.GroupBy("review_status")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting events by review status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.ReviewStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning review status count: %w", err)
		}
		counts[domain.ReviewStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating review status counts: %w", err)
	}
	return counts, nil
}

func (r *Repository) UpdateEventProcessing(ctx context.Context, event domain.Event) error {
	topics, err := marshalColumn(event.Topics)
	if err != nil {
		return fmt.Errorf("encoding event topics: %w", err)
	}
	var summary sql.NullString
	if event.Summary != nil {
		summary, err = marshalColumn(event.Summary)
		if err != nil {
			return fmt.Errorf("encoding event summary: %w", err)
		}
	}

	ub := sqlbuilder.Update("events")
	ub.Set(
		ub.Assign("category", string(event.Category)),
		ub.Assign("topics", topics),
		ub.Assign("importance_score", event.ImportanceScore),
		ub.Assign("noise_score", event.NoiseScore),
		ub.Assign("summary", summary),
		ub.Assign("needs_human_review", event.NeedsHumanReview),
		ub.Assign("review_status", string(event.ReviewStatus)),
		ub.Assign("review_reason", event.ReviewReason),
		ub.Assign("ai_processed", event.AIProcessed),
	)
	ub.Where(ub.Equal("id", event.ID))

	return r.execEventUpdate(ctx, ub)
}

func (r *Repository) UpdateEventReview(ctx context.Context, event domain.Event) error {
	var summary sql.NullString
	var err error
	if event.Summary != nil {
		summary, err = marshalColumn(event.Summary)
		if err != nil {
			return fmt.Errorf("encoding event summary: %w", err)
		}
	}

	ub := sqlbuilder.Update("events")
	ub.Set(
		ub.Assign("summary", summary),
		ub.Assign("needs_human_review", event.NeedsHumanReview),
		ub.Assign("review_status", string(event.ReviewStatus)),
		ub.Assign("review_reason", event.ReviewReason),
		ub.Assign("reviewed_by", event.ReviewedBy),
	)
	ub.Where(ub.Equal("id", event.ID))

	return r.execEventUpdate(ctx, ub)
}

// execEventUpdate runs the update without checking affected rows: MySQL
// reports zero affected rows for no-op updates, so existence is checked by
// fetching before updating.
func (r *Repository) execEventUpdate(ctx context.Context, ub *sqlbuilder.UpdateBuilder) error {
	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	return nil
}

func (r *Repository) queryEvents(ctx context.Context, sb *sqlbuilder.SelectBuilder) ([]domain.Event, error) {
	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running events query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}
