package department

import (
	"context"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Department, error)
	// LockByID reads the row FOR UPDATE. ErrNotFound when it is missing.
	LockByID(ctx context.Context, id int64) (*Department, error)
	// LockInPlant returns the department only when it belongs to plantID,
	// holding a FOR SHARE lock on it. ErrNotFound otherwise.
	LockInPlant(ctx context.Context, id, plantID int64) (*Department, error)
	List(ctx context.Context, params *FindParams) ([]*Department, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Selections(ctx context.Context, plantID int64) ([]lookup.Selection, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, params CreateParams) (*Department, error)
	Update(ctx context.Context, id int64, params UpdateParams) error
	Delete(ctx context.Context, id int64) error
	// MoveChildrenToPlant rewrites plant_id of the department's work
	// centers and cost centers.
	MoveChildrenToPlant(ctx context.Context, id, plantID int64) error
}
