package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence/models"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/repo"
)

const (
	plantFindQuery = `
        SELECT
            p.id,
            p.name,
            p.des,
            p.code,
            p.created_at,
            p.updated_at
        FROM plant p`

	plantCountQuery = `SELECT COUNT(p.id) FROM plant p`

	plantSelectionsQuery = `SELECT id, name FROM plant ORDER BY name, id`

	plantCodeExistsQuery = `SELECT 1 FROM plant WHERE code = $1 AND id <> $2`

	plantInsertQuery = `
        INSERT INTO plant (name, des, code)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	plantDeleteQuery = `DELETE FROM plant WHERE id = $1`
)

type PgPlantRepository struct{}

func NewPlantRepository() plant.Repository {
	return &PgPlantRepository{}
}

func (r *PgPlantRepository) filters(params *plant.FindParams) ([]string, []any) {
	var where []string
	var args []any
	if params.Search != "" {
		args = append(args, repo.ILikePattern(params.Search))
		where = append(where, repo.SearchPredicate([]string{"p.name", "p.code", "p.des"}, "", len(args)))
	}
	return where, args
}

func (r *PgPlantRepository) GetByID(ctx context.Context, id int64) (*plant.Plant, error) {
	return r.queryOne(ctx, repo.Join(plantFindQuery, "WHERE p.id = $1"), id)
}

func (r *PgPlantRepository) LockByID(ctx context.Context, id int64) (*plant.Plant, error) {
	return r.queryOne(ctx, repo.Join(plantFindQuery, "WHERE p.id = $1 FOR SHARE"), id)
}

func (r *PgPlantRepository) List(ctx context.Context, params *plant.FindParams) ([]*plant.Plant, error) {
	where, args := r.filters(params)
	query := repo.Join(
		plantFindQuery,
		repo.JoinWhere(where...),
		newestFirst("p"),
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	plants, err := r.queryPlants(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list plants")
	}
	return plants, nil
}

func (r *PgPlantRepository) Count(ctx context.Context, params *plant.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	where, args := r.filters(params)
	var count int64
	if err := tx.QueryRow(ctx, repo.Join(plantCountQuery, repo.JoinWhere(where...)), args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count plants")
	}
	return count, nil
}

func (r *PgPlantRepository) Selections(ctx context.Context) ([]lookup.Selection, error) {
	return querySelections(ctx, plantSelectionsQuery)
}

func (r *PgPlantRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	return exists(ctx, plantCodeExistsQuery, code, excludeID)
}

func (r *PgPlantRepository) Create(ctx context.Context, params plant.CreateParams) (*plant.Plant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	m := models.Plant{Name: params.Name, Description: params.Description, Code: params.Code}
	if err := tx.QueryRow(ctx, plantInsertQuery, m.Name, m.Description, m.Code).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to insert plant")
	}
	return toDomainPlant(&m), nil
}

func (r *PgPlantRepository) Update(ctx context.Context, id int64, params plant.UpdateParams) error {
	u := repo.NewUpdate(id)
	if params.Name.Set {
		u.Set("name", params.Name.Value)
	}
	if params.Description.Set {
		u.Set("des", params.Description.Value)
	}
	if params.Code.Set {
		u.Set("code", params.Code.Value)
	}
	return execUpdate(ctx, u, "plant", plant.ErrNotFound)
}

func (r *PgPlantRepository) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, plantDeleteQuery, id, plant.ErrNotFound)
}

func (r *PgPlantRepository) queryOne(ctx context.Context, query string, args ...any) (*plant.Plant, error) {
	plants, err := r.queryPlants(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get plant")
	}
	if len(plants) == 0 {
		return nil, plant.ErrNotFound
	}
	return plants[0], nil
}

func (r *PgPlantRepository) queryPlants(ctx context.Context, query string, args ...any) ([]*plant.Plant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	plants := make([]*plant.Plant, 0)
	for rows.Next() {
		var m models.Plant
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Code, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan plant row")
		}
		plants = append(plants, toDomainPlant(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return plants, nil
}
