package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huandu/go-sqlbuilder"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/domain"
)

func (r *Repository) FetchUser(ctx context.Context, userID string) (domain.User, error) {
	sb := sqlbuilder.Select("id", "email", "interests", "keywords", "tone")
	sb.From("users")
	sb.Where(sb.Equal("id", userID))

	query, args := sb.Build()

	var user domain.User
	var interests, keywords sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &interests, &keywords, &user.Tone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, datasources.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("fetching user: %w", err)
	}

	if err := unmarshalColumn(interests, &user.Interests); err != nil {
		return domain.User{}, fmt.Errorf("decoding user interests: %w", err)
	}
	if err := unmarshalColumn(keywords, &user.Keywords); err != nil {
		return domain.User{}, fmt.Errorf("decoding user keywords: %w", err)
	}
	return user, nil
}
