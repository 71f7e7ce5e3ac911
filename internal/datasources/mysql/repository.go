package mysql

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/harshmriduhash/Agentic-AI-Powered-Intelligence-SaaS/internal/datasources"
)

var _ datasources.EventRepository = (*Repository)(nil)
var _ datasources.UserEventRepository = (*Repository)(nil)
var _ datasources.ThreadRepository = (*Repository)(nil)
var _ datasources.UserStateRepository = (*Repository)(nil)
var _ datasources.UserFetcher = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const mysqlDuplicateEntryErrNo = 1062

// translateError maps driver-level duplicate-key failures onto the
// datasources sentinel so callers can resolve insert races without
// inspecting driver types.
func translateError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntryErrNo {
		return datasources.ErrDuplicateEvent
	}
	return err
}

func marshalColumn(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshalling column: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func unmarshalColumn(raw sql.NullString, v any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), v); err != nil {
		return fmt.Errorf("unmarshalling column: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
