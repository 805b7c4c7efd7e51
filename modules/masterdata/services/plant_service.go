package services

import (
	"context"
	"strings"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/pkg/constants"
	"github.com/plantops/plantops/pkg/eventbus"
	"github.com/plantops/plantops/pkg/identifiers"
	"github.com/plantops/plantops/pkg/pagination"
	"github.com/plantops/plantops/pkg/patch"
	"github.com/plantops/plantops/pkg/repo"
)

const msgPlantRequired = "name and code are required"

type CreatePlantInput struct {
	Name        string `validate:"required"`
	Description string
	Code        string `validate:"required"`
}

// UpdatePlantInput changes only the non-nil fields.
type UpdatePlantInput struct {
	Name        *string
	Description *string
	Code        *string
}

type PlantService struct {
	base
}

func NewPlantService(reg Registries, tx TxRunner, bus eventbus.EventBus) *PlantService {
	return &PlantService{base: newBase(reg, tx, bus, events.EntityPlant)}
}

func (s *PlantService) List(ctx context.Context, params ListParams) (*Page[*plant.Plant], error) {
	find := &plant.FindParams{
		Limit:  params.Page.Limit,
		Offset: params.Page.Offset,
		Search: repo.NormalizeSearch(params.Search),
	}
	items, err := s.reg.Plants.List(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	total, err := s.reg.Plants.Count(ctx, find)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return &Page[*plant.Plant]{Items: items, Pagination: pagination.NewMeta(total, params.Page)}, nil
}

func (s *PlantService) Selections(ctx context.Context) ([]lookup.Selection, error) {
	items, err := s.reg.Plants.Selections(ctx)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return items, nil
}

func (s *PlantService) GetByID(ctx context.Context, id int64) (*plant.Plant, error) {
	p, err := s.reg.Plants.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return p, nil
}

func (s *PlantService) Create(ctx context.Context, in CreatePlantInput) (*plant.Plant, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := constants.Validate.Struct(in); err != nil {
		return nil, s.fail(ctx, "create", NewValidationError(msgPlantRequired))
	}
	code, err := normalizeCode(in.Code, "Plant code")
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	if code == nil {
		return nil, s.fail(ctx, "create", NewValidationError(msgPlantRequired))
	}

	created, err := inTx(ctx, s.tx, func(txCtx context.Context) (*plant.Plant, error) {
		exists, err := s.reg.Plants.CodeExists(txCtx, *code, 0)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicateCode(msgPlantCodeExists, nil)
		}
		return s.reg.Plants.Create(txCtx, plant.CreateParams{
			Name:        in.Name,
			Description: in.Description,
			Code:        *code,
		})
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	s.publish(events.ActionCreated, created.ID)
	return created, nil
}

func (s *PlantService) Update(ctx context.Context, id int64, in UpdatePlantInput) error {
	params := plant.UpdateParams{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return s.fail(ctx, "update", NewValidationError(msgPlantRequired))
		}
		params.Name = patch.Of(name)
	}
	if in.Description != nil {
		params.Description = patch.Of(*in.Description)
	}
	if in.Code != nil {
		code, err := normalizeCode(*in.Code, "Plant code")
		if err != nil {
			return s.fail(ctx, "update", err)
		}
		if code == nil {
			return s.fail(ctx, "update", NewValidationError(msgPlantRequired))
		}
		params.Code = patch.Of(*code)
	}

	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.reg.Plants.GetByID(txCtx, id); err != nil {
			return err
		}
		if params.Code.Set {
			exists, err := s.reg.Plants.CodeExists(txCtx, params.Code.Value, id)
			if err != nil {
				return err
			}
			if exists {
				return duplicateCode(msgPlantCodeExists, nil)
			}
		}
		if params.Empty() {
			return nil
		}
		return s.reg.Plants.Update(txCtx, id, params)
	})
	if err != nil {
		return s.fail(ctx, "update", err)
	}
	s.publish(events.ActionUpdated, id)
	return nil
}

// Delete removes the plant; departments, work centers and cost centers
// under it go with it.
func (s *PlantService) Delete(ctx context.Context, id int64) error {
	if err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		return s.reg.Plants.Delete(txCtx, id)
	}); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.publish(events.ActionDeleted, id)
	return nil
}

// normalizeCode canonicalises a code; field names the code in the error.
func normalizeCode(raw, field string) (*string, error) {
	code, err := identifiers.NormalizeCode(raw)
	if err != nil {
		return nil, NewValidationError(field + " must be a number")
	}
	return code, nil
}

func normalizeOptionalCode(raw *string, field string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	return normalizeCode(*raw, field)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
