package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/plantops/plantops/modules/core/domain/aggregates/user"
	"github.com/plantops/plantops/modules/core/infrastructure/persistence/models"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/repo"
)

const (
	userFindQuery = `
        SELECT
            u.id,
            u.name,
            u.email,
            u.password,
            u.created_at,
            u.updated_at
        FROM users u`

	userInsertQuery = `
        INSERT INTO users (name, email, password)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.queryOne(ctx, repo.Join(userFindQuery, "WHERE u.id = $1"), id)
}

// GetByEmail matches case-insensitively; emails are stored lower-cased.
func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.queryOne(ctx, repo.Join(userFindQuery, "WHERE u.email = LOWER($1)"), email)
}

func (r *PgUserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	m := models.User{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.PasswordHash,
	}
	if err := tx.QueryRow(ctx, userInsertQuery, m.Name, m.Email, m.Password).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to insert user")
	}
	return toDomainUser(&m), nil
}

func (r *PgUserRepository) queryOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	var m models.User
	err = tx.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Name, &m.Email, &m.Password, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	return toDomainUser(&m), nil
}

func toDomainUser(m *models.User) *user.User {
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
