package workcenter

import (
	"context"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*WorkCenter, error)
	// LockByID reads the row FOR UPDATE. ErrNotFound when it is missing.
	LockByID(ctx context.Context, id int64) (*WorkCenter, error)
	// LockByIDs returns the existing rows among ids, locked FOR UPDATE in id
	// order. Missing ids are simply absent from the result.
	LockByIDs(ctx context.Context, ids []int64) ([]*WorkCenter, error)
	List(ctx context.Context, params *FindParams) ([]*WorkCenter, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Selections(ctx context.Context, plantID, depID int64) ([]lookup.Selection, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, params CreateParams) (*WorkCenter, error)
	Update(ctx context.Context, id int64, params UpdateParams) error
	Delete(ctx context.Context, id int64) error

	ListIDsByCostCenter(ctx context.Context, costCenterID int64) ([]int64, error)
	// SetCostCenter points every work center in ids at costCenterID and
	// returns how many rows changed.
	SetCostCenter(ctx context.Context, ids []int64, costCenterID int64) (int64, error)
	// ClearCostCenter nulls the reference of the given work centers that
	// still point at costCenterID.
	ClearCostCenter(ctx context.Context, costCenterID int64, ids []int64) (int64, error)
	SummariesByCostCenters(ctx context.Context, costCenterIDs []int64) (map[int64][]lookup.WorkCenterRef, error)
}
