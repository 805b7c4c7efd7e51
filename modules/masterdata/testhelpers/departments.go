package testhelpers

import (
	"context"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
)

type DepartmentRepository struct {
	s *Store
}

var _ department.Repository = (*DepartmentRepository)(nil)

func (s *Store) department(d department.Department) *department.Department {
	d.Plant = s.plantRef(d.PlantID)
	return &d
}

func (r *DepartmentRepository) GetByID(_ context.Context, id int64) (*department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.departments[id]
	if !ok {
		return nil, department.ErrNotFound
	}
	return r.s.department(d), nil
}

func (r *DepartmentRepository) LockByID(ctx context.Context, id int64) (*department.Department, error) {
	return r.GetByID(ctx, id)
}

func (r *DepartmentRepository) LockInPlant(_ context.Context, id, plantID int64) (*department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.departments[id]
	if !ok || d.PlantID != plantID {
		return nil, department.ErrNotFound
	}
	return r.s.department(d), nil
}

func (r *DepartmentRepository) filter(params *department.FindParams) []department.Department {
	out := make([]department.Department, 0, len(r.s.data.departments))
	for _, d := range r.s.data.departments {
		if params.PlantID != 0 && d.PlantID != params.PlantID {
			continue
		}
		if params.Search != "" &&
			!matches(params.Search, d.Name, str(d.Code), str(d.Description)) &&
			!r.s.plantMatches(d.PlantID, params.Search) {
			continue
		}
		out = append(out, d)
	}
	sortNewest(out, func(d department.Department) (time.Time, time.Time, int64) { return d.UpdatedAt, d.CreatedAt, d.ID })
	return out
}

func (r *DepartmentRepository) List(_ context.Context, params *department.FindParams) ([]*department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := page(r.filter(params), params.Limit, params.Offset)
	out := make([]*department.Department, len(rows))
	for i, d := range rows {
		out[i] = r.s.department(d)
	}
	return out, nil
}

func (r *DepartmentRepository) Count(_ context.Context, params *department.FindParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(params))), nil
}

func (r *DepartmentRepository) Selections(_ context.Context, plantID int64) ([]lookup.Selection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []lookup.Selection{}
	for _, d := range r.s.data.departments {
		if plantID == 0 || d.PlantID == plantID {
			out = append(out, lookup.Selection{ID: d.ID, Name: d.Name})
		}
	}
	sortSelections(out)
	return out, nil
}

func (r *DepartmentRepository) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.codeTaken(code, excludeID), nil
}

func (r *DepartmentRepository) codeTaken(code string, excludeID int64) bool {
	for _, d := range r.s.data.departments {
		if d.ID != excludeID && equalCode(d.Code, code) {
			return true
		}
	}
	return false
}

func (r *DepartmentRepository) Create(_ context.Context, params department.CreateParams) (*department.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.plants[params.PlantID]; !ok {
		return nil, fkViolation("department", "department_plant_id_fkey")
	}
	if params.Code != nil && r.codeTaken(*params.Code, 0) {
		return nil, uniqueViolation("department", "department_dep_code_key", "dep_code")
	}
	now := r.s.tick()
	d := department.Department{
		ID:          r.s.newID(),
		PlantID:     params.PlantID,
		Name:        params.Name,
		Code:        params.Code,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.data.departments[d.ID] = d
	r.s.writes++
	return r.s.department(d), nil
}

func (r *DepartmentRepository) Update(_ context.Context, id int64, params department.UpdateParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.departments[id]
	if !ok {
		return department.ErrNotFound
	}
	if params.PlantID.Set {
		if _, ok := r.s.data.plants[params.PlantID.Value]; !ok {
			return fkViolation("department", "department_plant_id_fkey")
		}
	}
	if params.Code.Set && params.Code.Value != nil && r.codeTaken(*params.Code.Value, id) {
		return uniqueViolation("department", "department_dep_code_key", "dep_code")
	}
	d.PlantID = params.PlantID.Apply(d.PlantID)
	d.Name = params.Name.Apply(d.Name)
	d.Code = params.Code.Apply(d.Code)
	d.Description = params.Description.Apply(d.Description)
	d.UpdatedAt = r.s.tick()
	r.s.data.departments[id] = d
	r.s.writes++
	return nil
}

func (r *DepartmentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.departments[id]; !ok {
		return department.ErrNotFound
	}
	r.s.deleteDepartment(id)
	r.s.writes++
	return nil
}

func (r *DepartmentRepository) MoveChildrenToPlant(_ context.Context, id, plantID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	for wcID, w := range r.s.data.workCenters {
		if w.DepID == id && w.PlantID != plantID {
			w.PlantID = plantID
			w.UpdatedAt = now
			r.s.data.workCenters[wcID] = w
		}
	}
	for ccID, c := range r.s.data.costCenters {
		if c.DepID == id && c.PlantID != plantID {
			c.PlantID = plantID
			c.UpdatedAt = now
			r.s.data.costCenters[ccID] = c
		}
	}
	r.s.writes++
	return nil
}

// deleteDepartment removes the department with its work and cost centers.
// Callers hold s.mu.
func (s *Store) deleteDepartment(id int64) {
	delete(s.data.departments, id)
	for wcID, w := range s.data.workCenters {
		if w.DepID == id {
			delete(s.data.workCenters, wcID)
		}
	}
	for ccID, c := range s.data.costCenters {
		if c.DepID == id {
			s.deleteCostCenter(ccID)
		}
	}
}

// deleteCostCenter removes the cost center and releases the work centers
// pointing at it. Callers hold s.mu.
func (s *Store) deleteCostCenter(id int64) {
	delete(s.data.costCenters, id)
	for wcID, w := range s.data.workCenters {
		if w.CostCenterID != nil && *w.CostCenterID == id {
			w.CostCenterID = nil
			s.data.workCenters[wcID] = w
		}
	}
}
