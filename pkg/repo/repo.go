package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tx is the subset of pgx.Tx and *pgxpool.Pool used by repositories.
type Tx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Join joins non-empty SQL fragments with a single space.
func Join(expressions ...string) string {
	parts := make([]string, 0, len(expressions))
	for _, e := range expressions {
		if strings.TrimSpace(e) == "" {
			continue
		}
		parts = append(parts, e)
	}
	return strings.Join(parts, " ")
}

// JoinWhere builds a WHERE clause from the given conditions, or returns an
// empty string when there are none.
func JoinWhere(expressions ...string) string {
	conditions := make([]string, 0, len(expressions))
	for _, e := range expressions {
		if strings.TrimSpace(e) == "" {
			continue
		}
		conditions = append(conditions, e)
	}
	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}

// FormatLimitOffset renders LIMIT/OFFSET. A non-positive limit means no limit.
func FormatLimitOffset(limit, offset int) string {
	if limit > 0 && offset > 0 {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	if limit > 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	if offset > 0 {
		return fmt.Sprintf("OFFSET %d", offset)
	}
	return ""
}

func Exists(inner string) string {
	return "SELECT EXISTS (" + inner + ")"
}

// OrderBy renders an ORDER BY clause for the given column expressions.
func OrderBy(columns ...string) string {
	if len(columns) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(columns, ", ")
}
