package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

var threadColumns = []string{
	"slug", "title", "event_ids", "ai_context", "is_active", "created_at", "updated_at",
}

func (r *Repository) CreateThread(ctx context.Context, thread domain.Thread) error {
	eventIDs, err := marshalColumn(thread.EventIDs)
	if err != nil {
		return fmt.Errorf("encoding thread event ids: %w", err)
	}
	aiContext, err := marshalColumn(thread.AIContext)
	if err != nil {
		return fmt.Errorf("encoding thread context: %w", err)
	}

	ib := sqlbuilder.InsertInto("threads")
	ib.Cols(threadColumns...)
	ib.Values(
		thread.Slug, thread.Title, eventIDs, aiContext, thread.IsActive,
		thread.CreatedAt, thread.UpdatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return translateError(fmt.Errorf("inserting thread: %w", err))
	}
	return nil
}

func (r *Repository) FetchThread(ctx context.Context, slug string) (domain.Thread, error) {
	sb := sqlbuilder.Select(threadColumns...)
	sb.From("threads")
	sb.Where(sb.Equal("slug", slug))

	query, args := sb.Build()
	thread, err := scanThread(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Thread{}, datasources.ErrNotFound
	}
	if err != nil {
		return domain.Thread{}, fmt.Errorf("fetching thread: %w", err)
	}
	return thread, nil
}

func (r *Repository) UpdateThread(ctx context.Context, thread domain.Thread) error {
	eventIDs, err := marshalColumn(thread.EventIDs)
	if err != nil {
		return fmt.Errorf("encoding thread event ids: %w", err)
	}
	aiContext, err := marshalColumn(thread.AIContext)
	if err != nil {
		return fmt.Errorf("encoding thread context: %w", err)
	}

	ub := sqlbuilder.Update("threads")
	ub.Set(
		ub.Assign("title", thread.Title),
		ub.Assign("event_ids", eventIDs),
		ub.Assign("ai_context", aiContext),
		ub.Assign("is_active", thread.IsActive),
		ub.Assign("updated_at", thread.UpdatedAt),
	)
	ub.Where(ub.Equal("slug", thread.Slug))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating thread: %w", err)
	}
	return nil
}

func (r *Repository) ListActiveThreadsCreatedSince(
	ctx context.Context, cutoff time.Time,
) ([]domain.Thread, error) {
	sb := sqlbuilder.Select(threadColumns...)
	sb.From("threads")
	sb.Where(sb.Equal("is_active", true), sb.GreaterEqualThan("created_at", cutoff))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running threads query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var threads []domain.Thread
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning thread: %w", err)
		}
		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating threads: %w", err)
	}
	return threads, nil
}

func scanThread(row rowScanner) (domain.Thread, error) {
	var thread domain.Thread
	var eventIDs, aiContext sql.NullString

	err := row.Scan(
		&thread.Slug, &thread.Title, &eventIDs, &aiContext, &thread.IsActive,
		&thread.CreatedAt, &thread.UpdatedAt,
	)
	if err != nil {
		return domain.Thread{}, err
	}

	if err := unmarshalColumn(eventIDs, &thread.EventIDs); err != nil {
		return domain.Thread{}, fmt.Errorf("decoding thread event ids: %w", err)
	}
	if err := unmarshalColumn(aiContext, &thread.AIContext); err != nil {
		return domain.Thread{}, fmt.Errorf("decoding thread context: %w", err)
	}
	return thread, nil
}
