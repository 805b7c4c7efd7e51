package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence/models"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/repo"
)

const (
	costCenterFindQuery = `
        SELECT
            c.id,
            c.plant_id,
            c.dep_id,
            c.cost_center_name,
            c.cost_center_code,
            c.description,
            c.created_at,
            c.updated_at,
            p.id,
            p.name,
            p.code,
            d.id,
            d.dep_name,
            d.dep_code
        FROM cost_center c
        LEFT JOIN plant p ON p.id = c.plant_id
        LEFT JOIN department d ON d.id = c.dep_id`

	costCenterCountQuery = `SELECT COUNT(c.id) FROM cost_center c`

	costCenterCodeExistsQuery = `SELECT 1 FROM cost_center WHERE cost_center_code = $1 AND id <> $2`

	costCenterInsertQuery = `
        INSERT INTO cost_center (plant_id, dep_id, cost_center_name, cost_center_code, description)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	costCenterDeleteQuery = `DELETE FROM cost_center WHERE id = $1`
)

var costCenterSearchColumns = []string{"c.cost_center_name", "c.cost_center_code", "c.description"}

type PgCostCenterRepository struct{}

func NewCostCenterRepository() costcenter.Repository {
	return &PgCostCenterRepository{}
}

func (r *PgCostCenterRepository) filters(params *costcenter.FindParams) ([]string, []any) {
	var where []string
	var args []any
	if params.PlantID != 0 {
		args = append(args, params.PlantID)
		where = append(where, fmt.Sprintf("c.plant_id = $%d", len(args)))
	}
	if params.DepID != 0 {
		args = append(args, params.DepID)
		where = append(where, fmt.Sprintf("c.dep_id = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, repo.ILikePattern(params.Search))
		where = append(where, repo.SearchPredicate(costCenterSearchColumns, "c.plant_id", len(args)))
	}
	return where, args
}

func (r *PgCostCenterRepository) GetByID(ctx context.Context, id int64) (*costcenter.CostCenter, error) {
	return r.queryOne(ctx, repo.Join(costCenterFindQuery, "WHERE c.id = $1"), id)
}

func (r *PgCostCenterRepository) LockByID(ctx context.Context, id int64) (*costcenter.CostCenter, error) {
	return r.queryOne(ctx, repo.Join(costCenterFindQuery, "WHERE c.id = $1 FOR UPDATE OF c"), id)
}

func (r *PgCostCenterRepository) List(ctx context.Context, params *costcenter.FindParams) ([]*costcenter.CostCenter, error) {
	where, args := r.filters(params)
	query := repo.Join(
		costCenterFindQuery,
		repo.JoinWhere(where...),
		newestFirst("c"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	items, err := r.queryCostCenters(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cost centers")
	}
	return items, nil
}

func (r *PgCostCenterRepository) Count(ctx context.Context, params *costcenter.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	where, args := r.filters(params)
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(costCenterCountQuery, repo.JoinWhere(where...)), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count cost centers")
	}
	return count, nil
}

func (r *PgCostCenterRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	return exists(ctx, costCenterCodeExistsQuery, code, excludeID)
}

func (r *PgCostCenterRepository) Create(ctx context.Context, params costcenter.CreateParams) (*costcenter.CostCenter, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	var id int64
	if err := tx.QueryRow(
		ctx,
		costCenterInsertQuery,
		params.PlantID,
		params.DepID,
		params.Name,
		params.Code,
		params.Description,
	).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "failed to insert cost center")
	}
	return r.GetByID(ctx, id)
}

func (r *PgCostCenterRepository) Update(ctx context.Context, id int64, params costcenter.UpdateParams) error {
	u := repo.NewUpdate(id)
	if params.PlantID.Set {
		u.Set("plant_id", params.PlantID.Value)
	}
	if params.DepID.Set {
		u.Set("dep_id", params.DepID.Value)
	}
	if params.Name.Set {
		u.Set("cost_center_name", params.Name.Value)
	}
	setNullable(u, "cost_center_code", params.Code)
	setNullable(u, "description", params.Description)
	return execUpdate(ctx, u, "cost_center", costcenter.ErrNotFound)
}

func (r *PgCostCenterRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, costCenterDeleteQuery, id, costcenter.ErrNotFound)
}

func (r *PgCostCenterRepository) queryOne(ctx context.Context, query string, args ...any) (*costcenter.CostCenter, error) {
	items, err := r.queryCostCenters(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cost center")
	}
	if len(items) == 0 {
		return nil, costcenter.ErrNotFound
	}
	return items[0], nil
}

func (r *PgCostCenterRepository) queryCostCenters(ctx context.Context, query string, args ...any) ([]*costcenter.CostCenter, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	items := make([]*costcenter.CostCenter, 0)
	for rows.Next() {
		var m models.CostCenter
		var p models.PlantRef
		var d models.DepartmentRef
		if err := rows.Scan(
			&m.ID,
			&m.PlantID,
			&m.DepID,
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
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan cost center row")
		}
		items = append(items, toDomainCostCenter(&m, p, d))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return items, nil
}
