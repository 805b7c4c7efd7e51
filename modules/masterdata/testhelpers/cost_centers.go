package testhelpers

import (
	"context"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
)

type CostCenterRepository struct {
	s *Store
}

var _ costcenter.Repository = (*CostCenterRepository)(nil)

func (s *Store) costCenter(c costcenter.CostCenter) *costcenter.CostCenter {
	c.Plant = s.plantRef(c.PlantID)
	c.Department = s.departmentRef(c.DepID)
	c.WorkCenters = nil
	return &c
}

func (r *CostCenterRepository) GetByID(_ context.Context, id int64) (*costcenter.CostCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.costCenters[id]
	if !ok {
		return nil, costcenter.ErrNotFound
	}
	return r.s.costCenter(c), nil
}

func (r *CostCenterRepository) LockByID(ctx context.Context, id int64) (*costcenter.CostCenter, error) {
	return r.GetByID(ctx, id)
}

func (r *CostCenterRepository) filter(params *costcenter.FindParams) []costcenter.CostCenter {
	out := make([]costcenter.CostCenter, 0, len(r.s.data.costCenters))
	for _, c := range r.s.data.costCenters {
		if params.PlantID != 0 && c.PlantID != params.PlantID {
			continue
		}
		if params.DepID != 0 && c.DepID != params.DepID {
			continue
		}
		if params.Search != "" &&
			!matches(params.Search, c.Name, str(c.Code), str(c.Description)) &&
			!r.s.plantMatches(c.PlantID, params.Search) {
			continue
		}
		out = append(out, c)
	}
	sortNewest(out, func(c costcenter.CostCenter) (time.Time, time.Time, int64) { return c.UpdatedAt, c.CreatedAt, c.ID })
	return out
}

func (r *CostCenterRepository) List(_ context.Context, params *costcenter.FindParams) ([]*costcenter.CostCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := page(r.filter(params), params.Limit, params.Offset)
	out := make([]*costcenter.CostCenter, len(rows))
	for i, c := range rows {
		out[i] = r.s.costCenter(c)
	}
	return out, nil
}

func (r *CostCenterRepository) Count(_ context.Context, params *costcenter.FindParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(params))), nil
}

func (r *CostCenterRepository) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.codeTaken(code, excludeID), nil
}

func (r *CostCenterRepository) codeTaken(code string, excludeID int64) bool {
	for _, c := range r.s.data.costCenters {
		if c.ID != excludeID && equalCode(c.Code, code) {
			return true
		}
	}
	return false
}

func (r *CostCenterRepository) checkRefs(plantID, depID int64) error {
	if _, ok := r.s.data.plants[plantID]; !ok {
		return fkViolation("cost_center", "cost_center_plant_id_fkey")
	}
	if _, ok := r.s.data.departments[depID]; !ok {
		return fkViolation("cost_center", "cost_center_dep_id_fkey")
	}
	return nil
}

func (r *CostCenterRepository) Create(_ context.Context, params costcenter.CreateParams) (*costcenter.CostCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(params.PlantID, params.DepID); err != nil {
		return nil, err
	}
	if params.Code != nil && r.codeTaken(*params.Code, 0) {
		return nil, uniqueViolation("cost_center", "cost_center_cost_center_code_key", "cost_center_code")
	}
	now := r.s.tick()
	c := costcenter.CostCenter{
		ID:          r.s.newID(),
		PlantID:     params.PlantID,
		DepID:       params.DepID,
		Name:        params.Name,
		Code:        params.Code,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.data.costCenters[c.ID] = c
	r.s.writes++
	return r.s.costCenter(c), nil
}

func (r *CostCenterRepository) Update(_ context.Context, id int64, params costcenter.UpdateParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.costCenters[id]
	if !ok {
		return costcenter.ErrNotFound
	}
	next := c
	next.PlantID = params.PlantID.Apply(c.PlantID)
	next.DepID = params.DepID.Apply(c.DepID)
	next.Name = params.Name.Apply(c.Name)
	next.Code = params.Code.Apply(c.Code)
	next.Description = params.Description.Apply(c.Description)
	if err := r.checkRefs(next.PlantID, next.DepID); err != nil {
		return err
	}
	if params.Code.Set && next.Code != nil && r.codeTaken(*next.Code, id) {
		return uniqueViolation("cost_center", "cost_center_cost_center_code_key", "cost_center_code")
	}
	next.UpdatedAt = r.s.tick()
	r.s.data.costCenters[id] = next
	r.s.writes++
	return nil
}

func (r *CostCenterRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.costCenters[id]; !ok {
		return costcenter.ErrNotFound
	}
	r.s.deleteCostCenter(id)
	r.s.writes++
	return nil
}
