package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huandu/go-sqlbuilder"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

var userEventColumns = []string{
	"user_id", "event_id", "relevance_score", "sent", "sent_at", "rating",
	"opened", "clicked", "created_at",
}

func (r *Repository) CreateUserEvent(ctx context.Context, userEvent domain.UserEvent) error {
	ib := sqlbuilder.InsertInto("user_events")
	ib.Cols(userEventColumns...)

	var sentAt sql.NullTime
	if userEvent.SentAt != nil {
		sentAt = sql.NullTime{Time: *userEvent.SentAt, Valid: true}
	}
	var rating sql.NullInt64
	if userEvent.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*userEvent.Rating), Valid: true}
	}

	ib.Values(
		userEvent.UserID, userEvent.EventID, userEvent.RelevanceScore,
		userEvent.Sent, sentAt, rating, userEvent.Opened, userEvent.Clicked,
		userEvent.CreatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return translateError(fmt.Errorf("inserting user event: %w", err))
	}
	return nil
}

func (r *Repository) ListUnsentUserEvents(ctx context.Context, userID string) ([]domain.UserEvent, error) {
	sb := sqlbuilder.Select(userEventColumns...)
	sb.From("user_events")
	sb.Where(sb.Equal("user_id", userID), sb.Equal("sent", false))
	sb.OrderBy("relevance_score DESC", "created_at DESC")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running user events query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var userEvents []domain.UserEvent
	for rows.Next() {
		var ue domain.UserEvent
		var sentAt sql.NullTime
		var rating sql.NullInt64
		if err := rows.Scan(
			&ue.UserID, &ue.EventID, &ue.RelevanceScore, &ue.Sent, &sentAt,
			&rating, &ue.Opened, &ue.Clicked, &ue.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning user event: %w", err)
		}
		if sentAt.Valid {
			t := sentAt.Time
			ue.SentAt = &t
		}
		if rating.Valid {
			v := int(rating.Int64)
			ue.Rating = &v
		}
		userEvents = append(userEvents, ue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user events: %w", err)
	}
	return userEvents, nil
}

func (r *Repository) CountUserEventsByEvent(ctx context.Context, eventID string) (int64, error) {
	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("user_events")
	sb.Where(sb.Equal("event_id", eventID))
	return r.countUserEvents(ctx, sb)
}

func (r *Repository) CountUserEventsByUser(ctx context.Context, userID string) (int64, error) {
	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("user_events")
	sb.Where(sb.Equal("user_id", userID))
	return r.countUserEvents(ctx, sb)
}

func (r *Repository) countUserEvents(ctx context.Context, sb *sqlbuilder.SelectBuilder) (int64, error) {
	query, args := sb.Build()
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting user events: %w", err)
	}
	return count, nil
}

func (r *Repository) DeleteUserEventsByEvent(ctx context.Context, eventID string) (int64, error) {
	db := sqlbuilder.DeleteFrom("user_events")
	db.Where(db.Equal("event_id", eventID))
	return r.deleteUserEvents(ctx, db)
}

func (r *Repository) DeleteUserEventsByUser(ctx context.Context, userID string) (int64, error) {
	db := sqlbuilder.DeleteFrom("user_events")
	db.Where(db.Equal("user_id", userID))
	return r.deleteUserEvents(ctx, db)
}

func (r *Repository) deleteUserEvents(ctx context.Context, db *sqlbuilder.DeleteBuilder) (int64, error) {
	query, args := db.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting user events: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted user events: %w", err)
	}
	return deleted, nil
}

// SetUserEventRating records explicit feedback for a delivered event. A
// rating never regresses once set: the update only applies while the stored
// rating is NULL, and a later call against an already-rated record is a
// no-op.
func (r *Repository) SetUserEventRating(ctx context.Context, userID, eventID string, rating int) error {
	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update("user_events")
	ub.Set(ub.Assign("rating", rating))
	ub.Where(ub.Equal("user_id", userID), ub.Equal("event_id", eventID), ub.IsNull("rating"))

	query, args := ub.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating rating: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting updated rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Nothing updated: either the record does not exist, or it is already
	// rated and the rating stands.
	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("user_events")
	sb.Where(sb.Equal("user_id", userID), sb.Equal("event_id", eventID))
	count, err := r.countUserEvents(ctx, sb)
	if err != nil {
		return err
	}
	if count == 0 {
		return datasources.ErrNotFound
	}
	return nil
}

func (r *Repository) ListRecentRatings(ctx context.Context, userID string, limit int) ([]int, error) {
	sb := sqlbuilder.Select("rating")
	sb.From("user_events")
	sb.Where(sb.Equal("user_id", userID), sb.IsNotNull("rating"))
	sb.OrderBy("created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running ratings query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("scanning rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ratings: %w", err)
	}
	return ratings, nil
}
