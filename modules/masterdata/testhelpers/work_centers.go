package testhelpers

import (
	"context"
	"sort"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
)

type WorkCenterRepository struct {
	s *Store
}

var _ workcenter.Repository = (*WorkCenterRepository)(nil)

func (s *Store) workCenter(w workcenter.WorkCenter) *workcenter.WorkCenter {
	if w.CostCenterID != nil {
		id := *w.CostCenterID
		w.CostCenterID = &id
	}
	w.Plant = s.plantRef(w.PlantID)
	w.Department = s.departmentRef(w.DepID)
	w.CostCenter = s.costCenterRef(w.CostCenterID)
	return &w
}

func (r *WorkCenterRepository) GetByID(_ context.Context, id int64) (*workcenter.WorkCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.workCenters[id]
	if !ok {
		return nil, workcenter.ErrNotFound
	}
	return r.s.workCenter(w), nil
}

// LockByID behaves like GetByID; the store mutex serializes writers.
func (r *WorkCenterRepository) LockByID(ctx context.Context, id int64) (*workcenter.WorkCenter, error) {
	return r.GetByID(ctx, id)
}

func (r *WorkCenterRepository) LockByIDs(_ context.Context, ids []int64) ([]*workcenter.WorkCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]*workcenter.WorkCenter, 0, len(sorted))
	seen := map[int64]bool{}
	for _, id := range sorted {
		if seen[id] {
			continue
		}
		seen[id] = true
		if w, ok := r.s.data.workCenters[id]; ok {
			out = append(out, r.s.workCenter(w))
		}
	}
	return out, nil
}

func (r *WorkCenterRepository) filter(params *workcenter.FindParams) []workcenter.WorkCenter {
	out := make([]workcenter.WorkCenter, 0, len(r.s.data.workCenters))
	for _, w := range r.s.data.workCenters {
		if params.PlantID != 0 && w.PlantID != params.PlantID {
			continue
		}
		if params.DepID != 0 && w.DepID != params.DepID {
			continue
		}
		if params.CostCenterID != 0 && (w.CostCenterID == nil || *w.CostCenterID != params.CostCenterID) {
			continue
		}
		if params.Search != "" &&
			!matches(params.Search, w.Name, str(w.Code), str(w.Description)) &&
			!r.s.plantMatches(w.PlantID, params.Search) {
			continue
		}
		out = append(out, w)
	}
	sortNewest(out, func(w workcenter.WorkCenter) (time.Time, time.Time, int64) { return w.UpdatedAt, w.CreatedAt, w.ID })
	return out
}

func (r *WorkCenterRepository) List(_ context.Context, params *workcenter.FindParams) ([]*workcenter.WorkCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := page(r.filter(params), params.Limit, params.Offset)
	out := make([]*workcenter.WorkCenter, len(rows))
	for i, w := range rows {
		out[i] = r.s.workCenter(w)
	}
	return out, nil
}

func (r *WorkCenterRepository) Count(_ context.Context, params *workcenter.FindParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filter(params))), nil
}

func (r *WorkCenterRepository) Selections(_ context.Context, plantID, depID int64) ([]lookup.Selection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []lookup.Selection{}
	for _, w := range r.s.data.workCenters {
		if (plantID == 0 || w.PlantID == plantID) && (depID == 0 || w.DepID == depID) {
			out = append(out, lookup.Selection{ID: w.ID, Name: w.Name})
		}
	}
	sortSelections(out)
	return out, nil
}

func (r *WorkCenterRepository) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.codeTaken(code, excludeID), nil
}

func (r *WorkCenterRepository) codeTaken(code string, excludeID int64) bool {
	for _, w := range r.s.data.workCenters {
		if w.ID != excludeID && equalCode(w.Code, code) {
			return true
		}
	}
	return false
}

func (r *WorkCenterRepository) checkRefs(plantID, depID int64, costCenterID *int64) error {
	if _, ok := r.s.data.plants[plantID]; !ok {
		return fkViolation("work_center", "work_center_plant_id_fkey")
	}
	if _, ok := r.s.data.departments[depID]; !ok {
		return fkViolation("work_center", "work_center_dep_id_fkey")
	}
	if costCenterID != nil {
		if _, ok := r.s.data.costCenters[*costCenterID]; !ok {
			return fkViolation("work_center", "work_center_cost_center_id_fkey")
		}
	}
	return nil
}

func (r *WorkCenterRepository) Create(_ context.Context, params workcenter.CreateParams) (*workcenter.WorkCenter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(params.PlantID, params.DepID, params.CostCenterID); err != nil {
		return nil, err
	}
	if params.Code != nil && r.codeTaken(*params.Code, 0) {
		return nil, uniqueViolation("work_center", "work_center_work_code_key", "work_code")
	}
	now := r.s.tick()
	w := workcenter.WorkCenter{
		ID:           r.s.newID(),
		PlantID:      params.PlantID,
		DepID:        params.DepID,
		CostCenterID: params.CostCenterID,
		Name:         params.Name,
		Code:         params.Code,
		Description:  params.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.data.workCenters[w.ID] = w
	r.s.writes++
	return r.s.workCenter(w), nil
}

func (r *WorkCenterRepository) Update(_ context.Context, id int64, params workcenter.UpdateParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.workCenters[id]
	if !ok {
		return workcenter.ErrNotFound
	}
	next := w
	next.PlantID = params.PlantID.Apply(w.PlantID)
	next.DepID = params.DepID.Apply(w.DepID)
	next.CostCenterID = params.CostCenterID.Apply(w.CostCenterID)
	next.Name = params.Name.Apply(w.Name)
	next.Code = params.Code.Apply(w.Code)
	next.Description = params.Description.Apply(w.Description)
	if err := r.checkRefs(next.PlantID, next.DepID, next.CostCenterID); err != nil {
		return err
	}
	if params.Code.Set && next.Code != nil && r.codeTaken(*next.Code, id) {
		return uniqueViolation("work_center", "work_center_work_code_key", "work_code")
	}
	next.UpdatedAt = r.s.tick()
	r.s.data.workCenters[id] = next
	r.s.writes++
	return nil
}

func (r *WorkCenterRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.workCenters[id]; !ok {
		return workcenter.ErrNotFound
	}
	delete(r.s.data.workCenters, id)
	r.s.writes++
	return nil
}

func (r *WorkCenterRepository) ListIDsByCostCenter(_ context.Context, costCenterID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []int64{}
	for _, w := range r.s.data.workCenters {
		if w.CostCenterID != nil && *w.CostCenterID == costCenterID {
			out = append(out, w.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *WorkCenterRepository) SetCostCenter(_ context.Context, ids []int64, costCenterID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.costCenters[costCenterID]; !ok {
		return 0, fkViolation("work_center", "work_center_cost_center_id_fkey")
	}
	var n int64
	now := r.s.tick()
	for _, id := range ids {
		w, ok := r.s.data.workCenters[id]
		if !ok {
			continue
		}
		ccID := costCenterID
		w.CostCenterID = &ccID
		w.UpdatedAt = now
		r.s.data.workCenters[id] = w
		n++
	}
	r.s.writes++
	return n, nil
}

func (r *WorkCenterRepository) ClearCostCenter(_ context.Context, costCenterID int64, ids []int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := r.s.tick()
	for _, id := range ids {
		w, ok := r.s.data.workCenters[id]
		if !ok || w.CostCenterID == nil || *w.CostCenterID != costCenterID {
			continue
		}
		w.CostCenterID = nil
		w.UpdatedAt = now
		r.s.data.workCenters[id] = w
		n++
	}
	r.s.writes++
	return n, nil
}

func (r *WorkCenterRepository) SummariesByCostCenters(_ context.Context, costCenterIDs []int64) (map[int64][]lookup.WorkCenterRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[int64]bool, len(costCenterIDs))
	for _, id := range costCenterIDs {
		wanted[id] = true
	}
	out := map[int64][]lookup.WorkCenterRef{}
	ids := make([]int64, 0, len(r.s.data.workCenters))
	for id := range r.s.data.workCenters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		w := r.s.data.workCenters[id]
		if w.CostCenterID == nil || !wanted[*w.CostCenterID] {
			continue
		}
		out[*w.CostCenterID] = append(out[*w.CostCenterID], lookup.WorkCenterRef{ID: w.ID, Name: w.Name, Code: w.Code})
	}
	return out, nil
}
