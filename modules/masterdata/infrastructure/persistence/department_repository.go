package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence/models"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/patch"
	"github.com/plantops/plantops/pkg/repo"
)

const (
	departmentFindQuery = `
        SELECT
            d.id,
            d.plant_id,
            d.dep_name,
            d.dep_code,
            d.dep_description,
            d.created_at,
            d.updated_at,
            p.id,
            p.name,
            p.code
        FROM department d
        LEFT JOIN plant p ON p.id = d.plant_id`

	departmentCountQuery = `SELECT COUNT(d.id) FROM department d`

	departmentCodeExistsQuery = `SELECT 1 FROM department WHERE dep_code = $1 AND id <> $2`

	departmentInsertQuery = `
        INSERT INTO department (plant_id, dep_name, dep_code, dep_description)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	departmentDeleteQuery = `DELETE FROM department WHERE id = $1`

	departmentMoveWorkCentersQuery = `
        UPDATE work_center SET plant_id = $2, updated_at = NOW()
        WHERE dep_id = $1 AND plant_id <> $2`

	departmentMoveCostCentersQuery = `
        UPDATE cost_center SET plant_id = $2, updated_at = NOW()
        WHERE dep_id = $1 AND plant_id <> $2`
)

var departmentSearchColumns = []string{"d.dep_name", "d.dep_code", "d.dep_description"}

type PgDepartmentRepository struct{}

func NewDepartmentRepository() department.Repository {
	return &PgDepartmentRepository{}
}

func (r *PgDepartmentRepository) filters(params *department.FindParams) ([]string, []any) {
	var where []string
	var args []any
	if params.PlantID != 0 {
		args = append(args, params.PlantID)
		where = append(where, fmt.Sprintf("d.plant_id = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, repo.ILikePattern(params.Search))
		where = append(where, repo.SearchPredicate(departmentSearchColumns, "d.plant_id", len(args)))
	}
	return where, args
}

func (r *PgDepartmentRepository) GetByID(ctx context.Context, id int64) (*department.Department, error) {
	return r.queryOne(ctx, repo.Join(departmentFindQuery, "WHERE d.id = $1"), id)
}

func (r *PgDepartmentRepository) LockByID(ctx context.Context, id int64) (*department.Department, error) {
	return r.queryOne(ctx, repo.Join(departmentFindQuery, "WHERE d.id = $1 FOR UPDATE OF d"), id)
}

func (r *PgDepartmentRepository) LockInPlant(ctx context.Context, id, plantID int64) (*department.Department, error) {
	return r.queryOne(ctx, repo.Join(departmentFindQuery, "WHERE d.id = $1 AND d.plant_id = $2 FOR SHARE OF d"), id, plantID)
}

func (r *PgDepartmentRepository) List(ctx context.Context, params *department.FindParams) ([]*department.Department, error) {
	where, args := r.filters(params)
	query := repo.Join(
		departmentFindQuery,
		repo.JoinWhere(where...),
		newestFirst("d"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	departments, err := r.queryDepartments(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list departments")
	}
	return departments, nil
}

func (r *PgDepartmentRepository) Count(ctx context.Context, params *department.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	where, args := r.filters(params)
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(departmentCountQuery, repo.JoinWhere(where...)), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count departments")
	}
	return count, nil
}

func (r *PgDepartmentRepository) Selections(ctx context.Context, plantID int64) ([]lookup.Selection, error) {
	if plantID == 0 {
		return querySelections(ctx, `SELECT id, dep_name FROM department ORDER BY dep_name, id`)
	}
	return querySelections(ctx, `SELECT id, dep_name FROM department WHERE plant_id = $1 ORDER BY dep_name, id`, plantID)
}

func (r *PgDepartmentRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	return exists(ctx, departmentCodeExistsQuery, code, excludeID)
}

func (r *PgDepartmentRepository) Create(ctx context.Context, params department.CreateParams) (*department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	var id int64
	if err := tx.QueryRow(
		ctx,
		departmentInsertQuery,
		params.PlantID,
		params.Name,
		params.Code,
		params.Description,
	).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "failed to insert department")
	}
	return r.GetByID(ctx, id)
}

func (r *PgDepartmentRepository) Update(ctx context.Context, id int64, params department.UpdateParams) error {
	u := repo.NewUpdate(id)
	if params.PlantID.Set {
		u.Set("plant_id", params.PlantID.Value)
	}
	if params.Name.Set {
		u.Set("dep_name", params.Name.Value)
	}
	setNullable(u, "dep_code", params.Code)
	setNullable(u, "dep_description", params.Description)
	return execUpdate(ctx, u, "department", department.ErrNotFound)
}

func (r *PgDepartmentRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, departmentDeleteQuery, id, department.ErrNotFound)
}

func (r *PgDepartmentRepository) MoveChildrenToPlant(ctx context.Context, id, plantID int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	if _, err := tx.Exec(ctx, departmentMoveWorkCentersQuery, id, plantID); err != nil {
		return errors.Wrap(err, "failed to move work centers")
	}
	if _, err := tx.Exec(ctx, departmentMoveCostCentersQuery, id, plantID); err != nil {
		return errors.Wrap(err, "failed to move cost centers")
	}
	return nil
}

func (r *PgDepartmentRepository) queryOne(ctx context.Context, query string, args ...any) (*department.Department, error) {
	departments, err := r.queryDepartments(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get department")
	}
	if len(departments) == 0 {
		return nil, department.ErrNotFound
	}
	return departments[0], nil
}

func (r *PgDepartmentRepository) queryDepartments(ctx context.Context, query string, args ...any) ([]*department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	departments := make([]*department.Department, 0)
	for rows.Next() {
		var m models.Department
		var p models.PlantRef
		if err := rows.Scan(
			&m.ID,
			&m.PlantID,
			&m.Name,
			&m.Code,
			&m.Description,
			&m.CreatedAt,
			&m.UpdatedAt,
			&p.ID,
			&p.Name,
			&p.Code,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan department row")
		}
		departments = append(departments, toDomainDepartment(&m, p))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return departments, nil
}

func setNullable[T any](u *repo.Update, column string, v patch.Nullable[T]) {
	if v.Set {
		u.Set(column, v.Arg())
	}
}
