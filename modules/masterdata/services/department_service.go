package services

import (
	"context"
	"strings"

	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/pkg/constants"
	"github.com/plantops/plantops/pkg/eventbus"
	"github.com/plantops/plantops/pkg/pagination"
	"github.com/plantops/plantops/pkg/patch"
	"github.com/plantops/plantops/pkg/repo"
)

const msgDepartmentRequired = "plantId and depName are required"

type CreateDepartmentInput struct {
	PlantID     int64  `validate:"required,gt=0"`
	Name        string `validate:"required"`
	Code        *string
	Description *string
}

type UpdateDepartmentInput struct {
	PlantID     *int64
	Name        *string
	Code        patch.Nullable[string]
	Description patch.Nullable[string]
}

type DepartmentService struct {
	base
}

func NewDepartmentService(reg Registries, tx TxRunner, bus eventbus.EventBus) *DepartmentService {
	return &DepartmentService{base: newBase(reg, tx, bus, events.EntityDepartment)}
}

func (s *DepartmentService) List(ctx context.Context, params ListParams) (*Page[*department.Department], error) {
	find := &department.FindParams{
		Limit:   params.Page.Limit,
		Offset:  params.Page.Offset,
		PlantID: params.PlantID,
		Search:  repo.NormalizeSearch(params.Search),
	}
	items, err := s.reg.Departments.List(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	total, err := s.reg.Departments.Count(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return &Page[*department.Department]{Items: items, Pagination: pagination.NewMeta(total, params.Page)}, nil
}

func (s *DepartmentService) Selections(ctx context.Context, plantID int64) ([]lookup.Selection, error) {
	items, err := s.reg.Departments.Selections(ctx, plantID)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return items, nil
}

func (s *DepartmentService) GetByID(ctx context.Context, id int64) (*department.Department, error) {
	d, err := s.reg.Departments.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return d, nil
}

func (s *DepartmentService) Create(ctx context.Context, in CreateDepartmentInput) (*department.Department, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := constants.Validate.Struct(in); err != nil {
		return nil, s.fail(ctx, "create", NewValidationError(msgDepartmentRequired))
	}
	code, err := normalizeOptionalCode(in.Code, "Department code")
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}

	created, err := inTx(ctx, s.tx, func(txCtx context.Context) (*department.Department, error) {
		if _, err := s.hierarchy.RequirePlant(txCtx, in.PlantID); err != nil {
			return nil, err
		}
		if err := s.checkCode(txCtx, code, 0); err != nil {
			return nil, err
		}
		return s.reg.Departments.Create(txCtx, department.CreateParams{
			PlantID:     in.PlantID,
			Name:        in.Name,
			Code:        code,
			Description: trimOptional(in.Description),
		})
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	s.publish(events.ActionCreated, created.ID)
	return created, nil
}

// Update applies the supplied fields. Moving the department to another
// plant moves its work centers and cost centers along.
func (s *DepartmentService) Update(ctx context.Context, id int64, in UpdateDepartmentInput) error {
	params := department.UpdateParams{}
	if in.Description.Set {
		params.Description = patch.Ptr(trimOptional(in.Description.Value))
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return s.fail(ctx, "update", NewValidationError(msgDepartmentRequired))
		}
		params.Name = patch.Of(name)
	}
	if in.Code.Set {
		code, err := normalizeOptionalCode(in.Code.Value, "Department code")
		if err != nil {
			return s.fail(ctx, "update", err)
		}
		params.Code = patch.Ptr(code)
	}
	if in.PlantID != nil {
		if *in.PlantID <= 0 {
			return s.fail(ctx, "update", NewValidationError(msgDepartmentRequired))
		}
		params.PlantID = patch.Of(*in.PlantID)
	}

	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.reg.Departments.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		moved := params.PlantID.Set && params.PlantID.Value != existing.PlantID
		if moved {
			if _, err := s.hierarchy.RequirePlant(txCtx, params.PlantID.Value); err != nil {
				return err
			}
		}
		if params.Code.Set {
			if err := s.checkCode(txCtx, params.Code.Value, id); err != nil {
				return err
			}
		}
		if err := s.reg.Departments.Update(txCtx, id, params); err != nil {
			return err
		}
		if moved {
			return s.reg.Departments.MoveChildrenToPlant(txCtx, id, params.PlantID.Value)
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "update", err)
	}
	s.publish(events.ActionUpdated, id)
	return nil
}

func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	if err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		return s.reg.Departments.Delete(txCtx, id)
	}); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.publish(events.ActionDeleted, id)
	return nil
}

func (s *DepartmentService) checkCode(ctx context.Context, code *string, excludeID int64) error {
	if code == nil {
		return nil
	}
	exists, err := s.reg.Departments.CodeExists(ctx, *code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return duplicateCode(msgDepartmentCodeExists, nil)
	}
	return nil
}
