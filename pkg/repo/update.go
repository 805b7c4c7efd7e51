package repo

import (
	"fmt"
	"strings"
)

// Update collects "column = $n" assignments for a partial UPDATE statement.
// Arguments passed to NewUpdate occupy the first placeholders, so the row key
// is usually given there and referenced as $1 in the WHERE clause.
type Update struct {
	sets []string
	args []any
}

func NewUpdate(keyArgs ...any) *Update {
	return &Update{args: append([]any{}, keyArgs...)}
}

func (u *Update) Set(column string, value any) *Update {
	u.args = append(u.args, value)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", column, len(u.args)))
	return u
}

// SetRaw adds an assignment that takes no argument, e.g. "updated_at = NOW()".
func (u *Update) SetRaw(expression string) *Update {
	u.sets = append(u.sets, expression)
	return u
}

func (u *Update) Empty() bool {
	return len(u.sets) == 0
}

func (u *Update) SQL(table, where, returning string) (string, []any) {
	q := Join(
		"UPDATE "+table,
		"SET "+strings.Join(u.sets, ", "),
		where,
	)
	if returning != "" {
		q += " RETURNING " + returning
	}
	return q, u.args
}
