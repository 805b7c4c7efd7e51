package testhelpers

import (
	"context"
	"sort"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
)

type PlantRepository struct {
	s *Store
}

var _ plant.Repository = (*PlantRepository)(nil)

func (r *PlantRepository) GetByID(_ context.Context, id int64) (*plant.Plant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.plants[id]
	if !ok {
		return nil, plant.ErrNotFound
	}
	return &p, nil
}

func (r *PlantRepository) LockByID(ctx context.Context, id int64) (*plant.Plant, error) {
	return r.GetByID(ctx, id)
}

func (r *PlantRepository) filter(params *plant.FindParams) []plant.Plant {
	out := make([]plant.Plant, 0, len(r.s.data.plants))
	for _, p := range r.s.data.plants {
		if matches(params.Search, p.Name, p.Code, p.Description) {
			out = append(out, p)
		}
	}
	sortNewest(out, func(p plant.Plant) (time.Time, time.Time, int64) { return p.UpdatedAt, p.CreatedAt, p.ID })
	return out
}

func (r *PlantRepository) List(_ context.Context, params *plant.FindParams) ([]*plant.Plant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := page(r.filter(params), params.Limit, params.Offset)
	out := make([]*plant.Plant, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (r *PlantRepository) Count(_ context.Context, params *plant.FindParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(params))), nil
}

func (r *PlantRepository) Selections(_ context.Context) ([]lookup.Selection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]lookup.Selection, 0, len(r.s.data.plants))
	for _, p := range r.s.data.plants {
		out = append(out, lookup.Selection{ID: p.ID, Name: p.Name})
	}
	sortSelections(out)
	return out, nil
}

func (r *PlantRepository) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.codeTaken(code, excludeID), nil
}

func (r *PlantRepository) codeTaken(code string, excludeID int64) bool {
	for _, p := range r.s.data.plants {
		if p.ID != excludeID && p.Code == code {
			return true
		}
	}
	return false
}

func (r *PlantRepository) Create(_ context.Context, params plant.CreateParams) (*plant.Plant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(params.Code, 0) {
		return nil, uniqueViolation("plant", "plant_code_key", "code")
	}
	now := r.s.tick()
	p := plant.Plant{
		ID:          r.s.newID(),
		Name:        params.Name,
		Description: params.Description,
		Code:        params.Code,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.data.plants[p.ID] = p
	r.s.writes++
	return &p, nil
}

func (r *PlantRepository) Update(_ context.Context, id int64, params plant.UpdateParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.plants[id]
	if !ok {
		return plant.ErrNotFound
	}
	if params.Code.Set && r.codeTaken(params.Code.Value, id) {
		return uniqueViolation("plant", "plant_code_key", "code")
	}
	p.Name = params.Name.Apply(p.Name)
	p.Description = params.Description.Apply(p.Description)
	p.Code = params.Code.Apply(p.Code)
	p.UpdatedAt = r.s.tick()
	r.s.data.plants[id] = p
	r.s.writes++
	return nil
}

// Delete cascades to departments, work centers and cost centers.
func (r *PlantRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.plants[id]; !ok {
		return plant.ErrNotFound
	}
	delete(r.s.data.plants, id)
	for depID, d := range r.s.data.departments {
		if d.PlantID == id {
			r.s.deleteDepartment(depID)
		}
	}
	for wcID, w := range r.s.data.workCenters {
		if w.PlantID == id {
			delete(r.s.data.workCenters, wcID)
		}
	}
	for ccID, c := range r.s.data.costCenters {
		if c.PlantID == id {
			r.s.deleteCostCenter(ccID)
		}
	}
	r.s.writes++
	return nil
}

func sortSelections(items []lookup.Selection) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
