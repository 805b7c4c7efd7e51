package services

import (
	"context"
	"strings"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/pkg/constants"
	"github.com/plantops/plantops/pkg/eventbus"
	"github.com/plantops/plantops/pkg/pagination"
	"github.com/plantops/plantops/pkg/patch"
	"github.com/plantops/plantops/pkg/repo"
)

const msgWorkCenterRequired = "plantId, depId and workName are required"

type CreateWorkCenterInput struct {
	PlantID      int64  `validate:"required,gt=0"`
	DepID        int64  `validate:"required,gt=0"`
	CostCenterID *int64 `validate:"omitempty,gt=0"`
	Name         string `validate:"required"`
	Code         *string
	Description  *string
}

// UpdateWorkCenterInput changes the supplied fields. A nil-valued but Set
// CostCenterID clears the reference.
type UpdateWorkCenterInput struct {
	PlantID      *int64
	DepID        *int64
	CostCenterID patch.Nullable[int64]
	Name         *string
	Code         patch.Nullable[string]
	Description  patch.Nullable[string]
}

type WorkCenterService struct {
	base
}

func NewWorkCenterService(reg Registries, tx TxRunner, bus eventbus.EventBus) *WorkCenterService {
	return &WorkCenterService{base: newBase(reg, tx, bus, events.EntityWorkCenter)}
}

func (s *WorkCenterService) List(ctx context.Context, params ListParams) (*Page[*workcenter.WorkCenter], error) {
	find := &workcenter.FindParams{
		Limit:        params.Page.Limit,
		Offset:       params.Page.Offset,
		PlantID:      params.PlantID,
		DepID:        params.DepID,
		CostCenterID: params.CostCenterID,
		Search:       repo.NormalizeSearch(params.Search),
	}
	items, err := s.reg.WorkCenters.List(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	total, err := s.reg.WorkCenters.Count(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return &Page[*workcenter.WorkCenter]{Items: items, Pagination: pagination.NewMeta(total, params.Page)}, nil
}

func (s *WorkCenterService) Selections(ctx context.Context, plantID, depID int64) ([]lookup.Selection, error) {
	items, err := s.reg.WorkCenters.Selections(ctx, plantID, depID)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return items, nil
}

func (s *WorkCenterService) GetByID(ctx context.Context, id int64) (*workcenter.WorkCenter, error) {
	wc, err := s.reg.WorkCenters.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return wc, nil
}

func (s *WorkCenterService) Create(ctx context.Context, in CreateWorkCenterInput) (*workcenter.WorkCenter, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := constants.Validate.Struct(in); err != nil {
		return nil, s.fail(ctx, "create", NewValidationError(msgWorkCenterRequired))
	}
	code, err := normalizeOptionalCode(in.Code, "Work center code")
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	created, err := inTx(ctx, s.tx, func(txCtx context.Context) (*workcenter.WorkCenter, error) {
		if err := s.hierarchy.RequireScope(txCtx, in.PlantID, in.DepID); err != nil {
			return nil, err
		}
		if in.CostCenterID != nil {
			if _, err := s.hierarchy.RequireCostCenterInScope(txCtx, *in.CostCenterID, in.PlantID, in.DepID); err != nil {
				return nil, err
			}
		}
		if err := s.checkCode(txCtx, code, 0); err != nil {
			return nil, err
		}
		return s.reg.WorkCenters.Create(txCtx, workcenter.CreateParams{
			PlantID:      in.PlantID,
			DepID:        in.DepID,
			CostCenterID: in.CostCenterID,
			Name:         in.Name,
			Code:         code,
			Description:  trimOptional(in.Description),
		})
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	s.publish(events.ActionCreated, created.ID)
	return created, nil
}

// Update re-validates the resulting scope. When the scope changes and no
// costCenterId is supplied, the cost center reference is cleared.
func (s *WorkCenterService) Update(ctx context.Context, id int64, in UpdateWorkCenterInput) error {
	params := workcenter.UpdateParams{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return s.fail(ctx, "update", NewValidationError(msgWorkCenterRequired))
		}
		params.Name = patch.Of(name)
	}
	if (in.PlantID != nil && *in.PlantID <= 0) || (in.DepID != nil && *in.DepID <= 0) {
		return s.fail(ctx, "update", NewValidationError(msgWorkCenterRequired))
	}
	if in.CostCenterID.Value != nil && *in.CostCenterID.Value <= 0 {
		return s.fail(ctx, "update", NewValidationError("costCenterId must be a positive integer"))
	}
	if in.Code.Set {
		code, err := normalizeOptionalCode(in.Code.Value, "Work center code")
		if err != nil {
			return s.fail(ctx, "update", err)
		}
		params.Code = patch.Ptr(code)
	}
	if in.Description.Set {
		params.Description = patch.Ptr(trimOptional(in.Description.Value))
	}

	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.reg.WorkCenters.LockByID(txCtx, id)
		if err != nil {
			return err
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
			return err
		}

		scopeChanged := plantID != existing.PlantID || depID != existing.DepID
		switch {
		case in.CostCenterID.Set:
			if in.CostCenterID.Value != nil {
				if _, err := s.hierarchy.RequireCostCenterInScope(txCtx, *in.CostCenterID.Value, plantID, depID); err != nil {
					return err
				}
			}
			params.CostCenterID = in.CostCenterID
		case scopeChanged && existing.CostCenterID != nil:
			params.CostCenterID = patch.Null[int64]()
		}

		if params.Code.Set {
			if err := s.checkCode(txCtx, params.Code.Value, id); err != nil {
				return err
			}
		}
		return s.reg.WorkCenters.Update(txCtx, id, params)
	})
	if err != nil {
		return s.fail(ctx, "update", err)
	}
	s.publish(events.ActionUpdated, id)
	return nil
}

func (s *WorkCenterService) Delete(ctx context.Context, id int64) error {
	if err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		return s.reg.WorkCenters.Delete(txCtx, id)
	}); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.publish(events.ActionDeleted, id)
	return nil
}

func (s *WorkCenterService) checkCode(ctx context.Context, code *string, excludeID int64) error {
	if code == nil {
		return nil
	}
	exists, err := s.reg.WorkCenters.CodeExists(ctx, *code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return duplicateCode(msgWorkCenterCodeExists, nil)
	}
	return nil
}
