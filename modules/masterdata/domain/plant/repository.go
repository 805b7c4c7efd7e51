package plant

import (
	"context"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Plant, error)
	// LockByID reads the plant with FOR SHARE so it cannot be deleted before
	// the surrounding transaction commits.
	LockByID(ctx context.Context, id int64) (*Plant, error)
	List(ctx context.Context, params *FindParams) ([]*Plant, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Selections(ctx context.Context) ([]lookup.Selection, error)
	// CodeExists ignores the row with excludeID (0 excludes nothing).
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, params CreateParams) (*Plant, error)
	Update(ctx context.Context, id int64, params UpdateParams) error
	Delete(ctx context.Context, id int64) error
}
