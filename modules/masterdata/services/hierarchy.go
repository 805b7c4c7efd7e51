package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/pkg/identifiers"
)

const (
	msgPlantNotFound         = "Plant not found"
	msgDepartmentNotFound    = "Department not found"
	msgDepartmentNotInPlant  = "Department does not belong to the selected plant"
	msgWorkCenterNotFound    = "Work center not found"
	msgWorkCentersNotFound   = "Some work centers were not found"
	msgWorkCentersOutOfScope = "Work centers must belong to the same selected plant and department"
	msgCostCenterNotFound    = "Cost center not found"
	msgCostCenterOutOfScope  = "Cost center must belong to the selected plant and department"
)

// Hierarchy checks that claimed parents exist and own their children. Run
// it inside the write transaction: every check takes a row lock.
type Hierarchy struct {
	reg Registries
}

func NewHierarchy(reg Registries) *Hierarchy {
	return &Hierarchy{reg: reg}
}

func (h *Hierarchy) RequirePlant(ctx context.Context, plantID int64) (*plant.Plant, error) {
	p, err := h.reg.Plants.LockByID(ctx, plantID)
	if errors.Is(err, plant.ErrNotFound) {
		return nil, notFound(msgPlantNotFound, nil)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RequireDepartmentInPlant fails with NotFound when the department is
// missing or sits under another plant. The latter also matches
// ErrScopeMismatch.
func (h *Hierarchy) RequireDepartmentInPlant(ctx context.Context, depID, plantID int64) (*department.Department, error) {
	d, err := h.reg.Departments.LockInPlant(ctx, depID, plantID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, department.ErrNotFound) {
		return nil, err
	}
	other, err := h.reg.Departments.GetByID(ctx, depID)
	switch {
	case errors.Is(err, department.ErrNotFound):
		return nil, notFound(msgDepartmentNotInPlant, nil)
	case err != nil:
		return nil, err
	}
	return nil, notFound(msgDepartmentNotInPlant, scopeMismatch(scopeDetail(other.PlantID, plantID)))
}

// RequireScope checks the plant, then the department within it.
func (h *Hierarchy) RequireScope(ctx context.Context, plantID, depID int64) error {
	if _, err := h.RequirePlant(ctx, plantID); err != nil {
		return err
	}
	_, err := h.RequireDepartmentInPlant(ctx, depID, plantID)
	return err
}

// RequireWorkCentersInScope locks the listed work centers. An empty list
// succeeds without touching storage.
func (h *Hierarchy) RequireWorkCentersInScope(ctx context.Context, ids []int64, plantID, depID int64) ([]*workcenter.WorkCenter, error) {
	unique := identifiers.Unique(ids)
	if len(unique) == 0 {
		return nil, nil
	}
	rows, err := h.reg.WorkCenters.LockByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(rows) < len(unique) {
		return nil, notFound(msgWorkCentersNotFound, nil)
	}
	for _, wc := range rows {
		if !wc.InScope(plantID, depID) {
			return nil, scopeMismatch(msgWorkCentersOutOfScope)
		}
	}
	return rows, nil
}

func (h *Hierarchy) RequireCostCenterInScope(ctx context.Context, costCenterID, plantID, depID int64) (*costcenter.CostCenter, error) {
	cc, err := h.reg.CostCenters.LockByID(ctx, costCenterID)
	if errors.Is(err, costcenter.ErrNotFound) {
		return nil, notFound(msgCostCenterNotFound, nil)
	}
	if err != nil {
		return nil, err
	}
	if !cc.InScope(plantID, depID) {
		return nil, scopeMismatch(msgCostCenterOutOfScope)
	}
	return cc, nil
}

func scopeDetail(actualPlantID, claimedPlantID int64) string {
	return fmt.Sprintf("department belongs to plant %d, not %d", actualPlantID, claimedPlantID)
}
