package services

import (
	"context"
	"strings"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/pkg/constants"
	"github.com/plantops/plantops/pkg/eventbus"
	"github.com/plantops/plantops/pkg/pagination"
	"github.com/plantops/plantops/pkg/patch"
	"github.com/plantops/plantops/pkg/repo"
)

const msgCostCenterRequired = "plantId, depId and costCenterName are required"

type CreateCostCenterInput struct {
	PlantID       int64  `validate:"required,gt=0"`
	DepID         int64  `validate:"required,gt=0"`
	Name          string `validate:"required"`
	Code          *string
	Description   *string
	WorkCenterIDs []int64
}

// UpdateCostCenterInput changes the supplied fields. A non-nil
// WorkCenterIDs replaces the assigned set, an empty one clears it.
type UpdateCostCenterInput struct {
	PlantID       *int64
	DepID         *int64
	Name          *string
	Code          patch.Nullable[string]
	Description   patch.Nullable[string]
	WorkCenterIDs *[]int64
}

type AssignmentData struct {
	Plants      []lookup.Selection `json:"plants"`
	Departments []lookup.Selection `json:"departments"`
	WorkCenters []lookup.Selection `json:"workCenters"`
}

type CostCenterService struct {
	base
	sync *AssignmentSynchronizer
}

func NewCostCenterService(reg Registries, tx TxRunner, bus eventbus.EventBus) *CostCenterService {
	return &CostCenterService{
		base: newBase(reg, tx, bus, events.EntityCostCenter),
		sync: NewAssignmentSynchronizer(reg.WorkCenters),
	}
}

func (s *CostCenterService) List(ctx context.Context, params ListParams) (*Page[*costcenter.CostCenter], error) {
	find := &costcenter.FindParams{
		Limit:   params.Page.Limit,
		Offset:  params.Page.Offset,
		PlantID: params.PlantID,
		DepID:   params.DepID,
		Search:  repo.NormalizeSearch(params.Search),
	}
	items, err := s.reg.CostCenters.List(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	total, err := s.reg.CostCenters.Count(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	if err := s.attachWorkCenters(ctx, items...); err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return &Page[*costcenter.CostCenter]{Items: items, Pagination: pagination.NewMeta(total, params.Page)}, nil
}

func (s *CostCenterService) GetByID(ctx context.Context, id int64) (*costcenter.CostCenter, error) {
	cc, err := s.reg.CostCenters.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	if err := s.attachWorkCenters(ctx, cc); err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return cc, nil
}

func (s *CostCenterService) attachWorkCenters(ctx context.Context, items ...*costcenter.CostCenter) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i, cc := range items {
		ids[i] = cc.ID
	}
	byCostCenter, err := s.reg.WorkCenters.SummariesByCostCenters(ctx, ids)
	if err != nil {
		return err
	}
	for _, cc := range items {
		cc.WorkCenters = byCostCenter[cc.ID]
		if cc.WorkCenters == nil {
			cc.WorkCenters = []lookup.WorkCenterRef{}
		}
	}
	return nil
}

// AssignmentData returns the dropdown contents of the assignment form.
func (s *CostCenterService) AssignmentData(ctx context.Context, plantID, depID int64) (*AssignmentData, error) {
	plants, err := s.reg.Plants.Selections(ctx)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	departments, err := s.reg.Departments.Selections(ctx, plantID)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	workCenters, err := s.reg.WorkCenters.Selections(ctx, plantID, depID)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return &AssignmentData{Plants: plants, Departments: departments, WorkCenters: workCenters}, nil
}

type CostCenterWriteResult struct {
	CostCenter *costcenter.CostCenter
	Diff       AssignmentDiff
}

func (s *CostCenterService) Create(ctx context.Context, in CreateCostCenterInput) (*CostCenterWriteResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := constants.Validate.Struct(in); err != nil {
		return nil, s.fail(ctx, "create", NewValidationError(msgCostCenterRequired))
	}
	code, err := normalizeOptionalCode(in.Code, "Cost center code")
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	res, err := inTx(ctx, s.tx, func(txCtx context.Context) (*CostCenterWriteResult, error) {
		if err := s.hierarchy.RequireScope(txCtx, in.PlantID, in.DepID); err != nil {
			return nil, err
		}
		if _, err := s.hierarchy.RequireWorkCentersInScope(txCtx, in.WorkCenterIDs, in.PlantID, in.DepID); err != nil {
			return nil, err
		}
		if err := s.checkCode(txCtx, code, 0); err != nil {
			return nil, err
		}
		created, err := s.reg.CostCenters.Create(txCtx, costcenter.CreateParams{
			PlantID:     in.PlantID,
			DepID:       in.DepID,
			Name:        in.Name,
			Code:        code,
			Description: trimOptional(in.Description),
		})
		if err != nil {
			return nil, err
		}
		diff, err := s.sync.Sync(txCtx, created.ID, in.WorkCenterIDs)
		if err != nil {
			return nil, err
		}
		return &CostCenterWriteResult{CostCenter: created, Diff: diff}, nil
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	s.publish(events.ActionCreated, res.CostCenter.ID)
	s.publishDiff(res.CostCenter.ID, res.Diff)
	return res, nil
}

// Update applies the supplied fields and, when WorkCenterIDs is given,
// synchronises the assigned set. A scope change without WorkCenterIDs
// clears the set since the old members no longer match the scope.
func (s *CostCenterService) Update(ctx context.Context, id int64, in UpdateCostCenterInput) (*AssignmentDiff, error) {
	params := costcenter.UpdateParams{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, s.fail(ctx, "update", NewValidationError(msgCostCenterRequired))
		}
		params.Name = patch.Of(name)
	}
	if (in.PlantID != nil && *in.PlantID <= 0) || (in.DepID != nil && *in.DepID <= 0) {
		return nil, s.fail(ctx, "update", NewValidationError(msgCostCenterRequired))
	}
	if in.Code.Set {
		code, err := normalizeOptionalCode(in.Code.Value, "Cost center code")
		if err != nil {
			return nil, s.fail(ctx, "update", err)
		}
		params.Code = patch.Ptr(code)
	}
	if in.Description.Set {
		params.Description = patch.Ptr(trimOptional(in.Description.Value))
	}

	diff, err := inTx(ctx, s.tx, func(txCtx context.Context) (*AssignmentDiff, error) {
		existing, err := s.reg.CostCenters.LockByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		plantID, depID := existing.PlantID, existing.DepID
		if in.PlantID != nil {
			plantID = *in.PlantID
			params.PlantID = patch.Of(plantID)
		}
		if in.DepID != nil {
			depID = *in.DepID
			params.DepID = patch.Of(depID)
		}
		if err := s.hierarchy.RequireScope(txCtx, plantID, depID); err != nil {
			return nil, err
		}

		var target *[]int64
		switch {
		case in.WorkCenterIDs != nil:
			if _, err := s.hierarchy.RequireWorkCentersInScope(txCtx, *in.WorkCenterIDs, plantID, depID); err != nil {
				return nil, err
			}
			target = in.WorkCenterIDs
		case !existing.InScope(plantID, depID):
			target = &[]int64{}
		}

		if params.Code.Set {
			if err := s.checkCode(txCtx, params.Code.Value, id); err != nil {
				return nil, err
			}
		}
		if err := s.reg.CostCenters.Update(txCtx, id, params); err != nil {
			return nil, err
		}
		if target == nil {
			return &AssignmentDiff{}, nil
		}
		d, err := s.sync.Sync(txCtx, id, *target)
		if err != nil {
			return nil, err
		}
		return &d, nil
	})
	if err != nil {
		return nil, s.fail(ctx, "update", err)
	}
	s.publish(events.ActionUpdated, id)
	s.publishDiff(id, *diff)
	return diff, nil
}

// Delete removes the cost center; work centers referencing it are released.
func (s *CostCenterService) Delete(ctx context.Context, id int64) error {
	if err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		return s.reg.CostCenters.Delete(txCtx, id)
	}); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.publish(events.ActionDeleted, id)
	return nil
}

func (s *CostCenterService) checkCode(ctx context.Context, code *string, excludeID int64) error {
	if code == nil {
		return nil
	}
	exists, err := s.reg.CostCenters.CodeExists(ctx, *code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return duplicateCode(msgCostCenterCodeExists, nil)
	}
	return nil
}

func (s *CostCenterService) publishDiff(costCenterID int64, diff AssignmentDiff) {
	if s.bus == nil || diff.Empty() {
		return
	}
	s.bus.Publish(&events.AssignmentsSynced{
		CostCenterID: costCenterID,
		Assigned:     diff.Assigned,
		Cleared:      diff.Cleared,
		At:           time.Now().UTC(),
	})
}
