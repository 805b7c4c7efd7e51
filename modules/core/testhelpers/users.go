package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plantops/plantops/modules/core/domain/aggregates/user"
)

// UserRepository keeps users in memory. A duplicate email fails with the
// same unique violation Postgres raises on users_email_key.
type UserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]user.User
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]user.User)}
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, params user.CreateParams) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == params.Email {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	r.nextID++
	now := time.Now()
	u := user.User{
		ID:           r.nextID,
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return &u, nil
}
