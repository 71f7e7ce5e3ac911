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

var userStateColumns = []string{
	"user_id", "email", "processed_event_ids", "stats", "current_state",
	"recent_errors", "action_history", "version", "created_at", "updated_at",
}

const maxStateUpdateAttempts = 5

func (r *Repository) FetchUserState(ctx context.Context, userID string) (domain.UserProcessingState, error) {
	sb := sqlbuilder.Select(userStateColumns...)
	sb.From("user_processing_state")
	sb.Where(sb.Equal("user_id", userID))

	query, args := sb.Build()
	state, err := scanUserState(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserProcessingState{}, datasources.ErrNotFound
	}
	if err != nil {
		return domain.UserProcessingState{}, fmt.Errorf("fetching user state: %w", err)
	}
	return state, nil
}

// UpdateUserState reads the current state, applies the transform, and writes
// back conditionally on the stored version, retrying on conflict. The record
// is created lazily on first use.
func (r *Repository) UpdateUserState(
	ctx context.Context, userID, email string,
	transform func(*domain.UserProcessingState),
) (domain.UserProcessingState, error) {
	for attempt := 0; attempt < maxStateUpdateAttempts; attempt++ {
		state, err := r.FetchUserState(ctx, userID)
		if errors.Is(err, datasources.ErrNotFound) {
			state = domain.UserProcessingState{
				UserID:    userID,
				Email:     email,
				CreatedAt: time.Now(),
			}
			state.SetPhase(domain.PhaseIdle, false)
			transform(&state)
			state.UpdatedAt = time.Now()

			err := r.insertUserState(ctx, state)
			if errors.Is(err, datasources.ErrDuplicateEvent) {
				// Lost a create race; retry against the stored record.
				continue
			}
			if err != nil {
				return domain.UserProcessingState{}, err
			}
			return state, nil
		}
		if err != nil {
			return domain.UserProcessingState{}, err
		}

		transform(&state)
		state.UpdatedAt = time.Now()

		applied, err := r.updateUserStateVersioned(ctx, state)
		if err != nil {
			return domain.UserProcessingState{}, err
		}
		if applied {
			state.Version++
			return state, nil
		}
	}

	return domain.UserProcessingState{}, fmt.Errorf(
		"updating user state for [%s]: too many version conflicts", userID)
}

func (r *Repository) insertUserState(ctx context.Context, state domain.UserProcessingState) error {
	cols, err := marshalUserStateColumns(state)
	if err != nil {
		return err
	}

	ib := sqlbuilder.InsertInto("user_processing_state")
	ib.Cols(userStateColumns...)
	ib.Values(
		state.UserID, state.Email, cols.processedIDs, cols.stats,
		cols.current, cols.recentErrors, cols.actionHistory,
		state.Version, state.CreatedAt, state.UpdatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return translateError(fmt.Errorf("inserting user state: %w", err))
	}
	return nil
}

func (r *Repository) updateUserStateVersioned(
	ctx context.Context, state domain.UserProcessingState,
) (bool, error) {
	cols, err := marshalUserStateColumns(state)
	if err != nil {
		return false, err
	}

	ub := sqlbuilder.Update("user_processing_state")
	ub.Set(
		ub.Assign("email", state.Email),
		ub.Assign("processed_event_ids", cols.processedIDs),
		ub.Assign("stats", cols.stats),
		ub.Assign("current_state", cols.current),
		ub.Assign("recent_errors", cols.recentErrors),
		ub.Assign("action_history", cols.actionHistory),
		ub.Incr("version"),
		ub.Assign("updated_at", state.UpdatedAt),
	)
	ub.Where(ub.Equal("user_id", state.UserID), ub.Equal("version", state.Version))

	query, args := ub.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("updating user state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking user state update: %w", err)
	}
	return affected == 1, nil
}

type userStateJSONColumns struct {
	processedIDs  sql.NullString
	stats         sql.NullString
	current       sql.NullString
	recentErrors  sql.NullString
	actionHistory sql.NullString
}

func marshalUserStateColumns(state domain.UserProcessingState) (userStateJSONColumns, error) {
	var cols userStateJSONColumns
	var err error

	if cols.processedIDs, err = marshalColumn(state.ProcessedEventIDs); err != nil {
		return cols, fmt.Errorf("encoding processed event ids: %w", err)
	}
	if cols.stats, err = marshalColumn(state.Stats); err != nil {
		return cols, fmt.Errorf("encoding stats: %w", err)
	}
	if cols.current, err = marshalColumn(state.Current); err != nil {
		return cols, fmt.Errorf("encoding current state: %w", err)
	}
	if cols.recentErrors, err = marshalColumn(state.RecentErrors); err != nil {
		return cols, fmt.Errorf("encoding recent errors: %w", err)
	}
	if cols.actionHistory, err = marshalColumn(state.ActionHistory); err != nil {
		return cols, fmt.Errorf("encoding action history: %w", err)
	}
	return cols, nil
}

func scanUserState(row rowScanner) (domain.UserProcessingState, error) {
	var state domain.UserProcessingState
	var processedIDs, stats, current, recentErrors, actionHistory sql.NullString

	err := row.Scan(
		&state.UserID, &state.Email, &processedIDs, &stats, &current,
		&recentErrors, &actionHistory, &state.Version, &state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return domain.UserProcessingState{}, err
	}

	if err := unmarshalColumn(processedIDs, &state.ProcessedEventIDs); err != nil {
		return domain.UserProcessingState{}, fmt.Errorf("decoding processed event ids: %w", err)
	}
	if err := unmarshalColumn(stats, &state.Stats); err != nil {
		return domain.UserProcessingState{}, fmt.Errorf("decoding stats: %w", err)
	}
	if err := unmarshalColumn(current, &state.Current); err != nil {
		return domain.UserProcessingState{}, fmt.Errorf("decoding current state: %w", err)
	}
	if err := unmarshalColumn(recentErrors, &state.RecentErrors); err != nil {
		return domain.UserProcessingState{}, fmt.Errorf("decoding recent errors: %w", err)
	}
	if err := unmarshalColumn(actionHistory, &state.ActionHistory); err != nil {
		return domain.UserProcessingState{}, fmt.Errorf("decoding action history: %w", err)
	}
	return state, nil
}
