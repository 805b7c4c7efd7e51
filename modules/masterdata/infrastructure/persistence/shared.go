package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/repo"
)

// newestFirst orders rows of the aliased table by most recent change.
func newestFirst(alias string) string {
	return repo.OrderBy(alias+".updated_at DESC", alias+".created_at DESC", alias+".id DESC")
}

func exists(ctx context.Context, inner string, args ...any) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get transaction")
	}
	var found bool
	if err := tx.QueryRow(ctx, repo.Exists(inner), args...).Scan(&found); err != nil {
		return false, errors.Wrap(err, "failed to check existence")
	}
	return found, nil
}

func querySelections(ctx context.Context, query string, args ...any) ([]lookup.Selection, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query selections")
	}
	defer rows.Close()

	out := make([]lookup.Selection, 0)
	for rows.Next() {
		var s lookup.Selection
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan selection")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return out, nil
}

// execUpdate always bumps updated_at, so an update without fields still
// reports a missing row as notFound.
func execUpdate(ctx context.Context, u *repo.Update, table string, notFound error) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	u.SetRaw("updated_at = NOW()")
	query, args := u.SQL(table, "WHERE id = $1", "")
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "failed to update %s", table)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func execDelete(ctx context.Context, query string, id int64, notFound error) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete")
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
