package costcenter

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (*CostCenter, error)
	// LockByID reads the cost center FOR UPDATE; assignment syncs of the same
	// cost center serialise on this lock.
	LockByID(ctx context.Context, id int64) (*CostCenter, error)
	List(ctx context.Context, params *FindParams) ([]*CostCenter, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, params CreateParams) (*CostCenter, error)
	Update(ctx context.Context, id int64, params UpdateParams) error
	Delete(ctx context.Context, id int64) error
}
