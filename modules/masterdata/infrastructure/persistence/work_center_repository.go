package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence/models"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/repo"
)

const (
	workCenterFindQuery = `
        SELECT
            w.id,
            w.plant_id,
            w.dep_id,
            w.cost_center_id,
            w.work_name,
            w.work_code,
            w.work_description,
            w.created_at,
            w.updated_at,
            p.id,
            p.name,
            p.code,
            d.id,
            d.dep_name,
            d.dep_code,
            c.id,
            c.cost_center_name,
            c.cost_center_code
        FROM work_center w
        LEFT JOIN plant p ON p.id = w.plant_id
        LEFT JOIN department d ON d.id = w.dep_id
        LEFT JOIN cost_center c ON c.id = w.cost_center_id`

	workCenterCountQuery = `SELECT COUNT(w.id) FROM work_center w`

	workCenterCodeExistsQuery = `SELECT 1 FROM work_center WHERE work_code = $1 AND id <> $2`

	workCenterInsertQuery = `
        INSERT INTO work_center (plant_id, dep_id, cost_center_id, work_name, work_code, work_description)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	workCenterDeleteQuery = `DELETE FROM work_center WHERE id = $1`

	workCenterIDsByCostCenterQuery = `SELECT id FROM work_center WHERE cost_center_id = $1 ORDER BY id`

	workCenterAssignQuery = `
        UPDATE work_center SET cost_center_id = $1, updated_at = NOW()
        WHERE id = ANY($2)`

	workCenterReleaseQuery = `
        UPDATE work_center SET cost_center_id = NULL, updated_at = NOW()
        WHERE cost_center_id = $1 AND id = ANY($2)`

	workCenterSummariesQuery = `
        SELECT cost_center_id, id, work_name, work_code
        FROM work_center
        WHERE cost_center_id = ANY($1)
        ORDER BY id`
)

var workCenterSearchColumns = []string{"w.work_name", "w.work_code", "w.work_description"}

type PgWorkCenterRepository struct{}

func NewWorkCenterRepository() workcenter.Repository {
	return &PgWorkCenterRepository{}
}

func (r *PgWorkCenterRepository) filters(params *workcenter.FindParams) ([]string, []any) {
	var where []string
	var args []any
	if params.PlantID != 0 {
		args = append(args, params.PlantID)
		where = append(where, fmt.Sprintf("w.plant_id = $%d", len(args)))
	}
	if params.DepID != 0 {
		args = append(args, params.DepID)
		where = append(where, fmt.Sprintf("w.dep_id = $%d", len(args)))
	}
	if params.CostCenterID != 0 {
		args = append(args, params.CostCenterID)
		where = append(where, fmt.Sprintf("w.cost_center_id = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, repo.ILikePattern(params.Search))
		where = append(where, repo.SearchPredicate(workCenterSearchColumns, "w.plant_id", len(args)))
	}
	return where, args
}

func (r *PgWorkCenterRepository) GetByID(ctx context.Context, id int64) (*workcenter.WorkCenter, error) {
	items, err := r.queryWorkCenters(ctx, repo.Join(workCenterFindQuery, "WHERE w.id = $1"), id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get work center")
	}
	if len(items) == 0 {
		return nil, workcenter.ErrNotFound
	}
	return items[0], nil
}

func (r *PgWorkCenterRepository) LockByID(ctx context.Context, id int64) (*workcenter.WorkCenter, error) {
	items, err := r.queryWorkCenters(ctx, repo.Join(workCenterFindQuery, "WHERE w.id = $1", "FOR UPDATE OF w"), id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock work center")
	}
	if len(items) == 0 {
		return nil, workcenter.ErrNotFound
	}
	return items[0], nil
}

func (r *PgWorkCenterRepository) LockByIDs(ctx context.Context, ids []int64) ([]*workcenter.WorkCenter, error) {
	if len(ids) == 0 {
		return []*workcenter.WorkCenter{}, nil
	}
	query := repo.Join(workCenterFindQuery, "WHERE w.id = ANY($1)", "ORDER BY w.id", "FOR UPDATE OF w")
	items, err := r.queryWorkCenters(ctx, query, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock work centers")
	}
	return items, nil
}

func (r *PgWorkCenterRepository) List(ctx context.Context, params *workcenter.FindParams) ([]*workcenter.WorkCenter, error) {
	where, args := r.filters(params)
	query := repo.Join(
		workCenterFindQuery,
		repo.JoinWhere(where...),
		newestFirst("w"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	items, err := r.queryWorkCenters(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list work centers")
	}
	return items, nil
}

func (r *PgWorkCenterRepository) Count(ctx context.Context, params *workcenter.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	where, args := r.filters(params)
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(workCenterCountQuery, repo.JoinWhere(where...)), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count work centers")
	}
	return count, nil
}

func (r *PgWorkCenterRepository) Selections(ctx context.Context, plantID, depID int64) ([]lookup.Selection, error) {
	var where []string
	var args []any
	if plantID != 0 {
		args = append(args, plantID)
		where = append(where, fmt.Sprintf("plant_id = $%d", len(args)))
	}
	if depID != 0 {
		args = append(args, depID)
		where = append(where, fmt.Sprintf("dep_id = $%d", len(args)))
	}
	query := repo.Join("SELECT id, work_name FROM work_center", repo.JoinWhere(where...), repo.OrderBy("work_name", "id"))
	return querySelections(ctx, query, args...)
}

func (r *PgWorkCenterRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	return exists(ctx, workCenterCodeExistsQuery, code, excludeID)
}

func (r *PgWorkCenterRepository) Create(ctx context.Context, params workcenter.CreateParams) (*workcenter.WorkCenter, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	var id int64
	if err := tx.QueryRow(
		ctx,
		workCenterInsertQuery,
		params.PlantID,
		params.DepID,
		params.CostCenterID,
		params.Name,
		params.Code,
		params.Description,
	).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "failed to insert work center")
	}
	return r.GetByID(ctx, id)
}

func (r *PgWorkCenterRepository) Update(ctx context.Context, id int64, params workcenter.UpdateParams) error {
	u := repo.NewUpdate(id)
	if params.PlantID.Set {
		u.Set("plant_id", params.PlantID.Value)
	}
	if params.DepID.Set {
		u.Set("dep_id", params.DepID.Value)
	}
	setNullable(u, "cost_center_id", params.CostCenterID)
	if params.Name.Set {
		u.Set("work_name", params.Name.Value)
	}
	setNullable(u, "work_code", params.Code)
	setNullable(u, "work_description", params.Description)
	return execUpdate(ctx, u, "work_center", workcenter.ErrNotFound)
}

func (r *PgWorkCenterRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, workCenterDeleteQuery, id, workcenter.ErrNotFound)
}

func (r *PgWorkCenterRepository) ListIDsByCostCenter(ctx context.Context, costCenterID int64) ([]int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, workCenterIDsByCostCenterQuery, costCenterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assigned work centers")
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan work center id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return ids, nil
}

func (r *PgWorkCenterRepository) SetCostCenter(ctx context.Context, ids []int64, costCenterID int64) (int64, error) {
	return r.exec(ctx, workCenterAssignQuery, "failed to assign work centers", costCenterID, ids)
}

func (r *PgWorkCenterRepository) ClearCostCenter(ctx context.Context, costCenterID int64, ids []int64) (int64, error) {
	return r.exec(ctx, workCenterReleaseQuery, "failed to release work centers", costCenterID, ids)
}

func (r *PgWorkCenterRepository) exec(ctx context.Context, query, msg string, args ...any) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, msg)
	}
	return tag.RowsAffected(), nil
}

func (r *PgWorkCenterRepository) SummariesByCostCenters(ctx context.Context, costCenterIDs []int64) (map[int64][]lookup.WorkCenterRef, error) {
	out := make(map[int64][]lookup.WorkCenterRef, len(costCenterIDs))
	if len(costCenterIDs) == 0 {
		return out, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, workCenterSummariesQuery, costCenterIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query work center summaries")
	}
	defer rows.Close()

	for rows.Next() {
		var ccID int64
		var m models.WorkCenter
		if err := rows.Scan(&ccID, &m.ID, &m.Name, &m.Code); err != nil {
			return nil, errors.Wrap(err, "failed to scan work center summary")
		}
		out[ccID] = append(out[ccID], lookup.WorkCenterRef{ID: m.ID, Name: m.Name, Code: stringPtr(m.Code)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return out, nil
}

func (r *PgWorkCenterRepository) queryWorkCenters(ctx context.Context, query string, args ...any) ([]*workcenter.WorkCenter, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	items := make([]*workcenter.WorkCenter, 0)
	for rows.Next() {
		var m models.WorkCenter
		var p models.PlantRef
		var d models.DepartmentRef
		var c models.CostCenterRef
		if err := rows.Scan(
			&m.ID,
			&m.PlantID,
			&m.DepID,
			&m.CostCenterID,
			&m.Name,
			&m.Code,
			&m.Description,
			&m.CreatedAt,
			&m.UpdatedAt,
			&p.ID,
			&p.Name,
			&p.Code,
			&d.ID,
			&d.Name,
			&d.Code,
			&c.ID,
			&c.Name,
			&c.Code,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan work center row")
		}
		items = append(items, toDomainWorkCenter(&m, p, d, c))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return items, nil
}
