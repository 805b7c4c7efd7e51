// Package testhelpers provides an in-memory implementation of the master
// data repositories. It mimics the storage contract the services rely on:
// unique code constraints, cascading deletes, ON DELETE SET NULL for the
// work center cost center reference and transaction rollback.
package testhelpers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
)

type state struct {
	nextID      int64
	plants      map[int64]plant.Plant
	departments map[int64]department.Department
	workCenters map[int64]workcenter.WorkCenter
	costCenters map[int64]costcenter.CostCenter
}

func (s state) clone() state {
	out := state{
		nextID:      s.nextID,
		plants:      make(map[int64]plant.Plant, len(s.plants)),
		departments: make(map[int64]department.Department, len(s.departments)),
		workCenters: make(map[int64]workcenter.WorkCenter, len(s.workCenters)),
		costCenters: make(map[int64]costcenter.CostCenter, len(s.costCenters)),
	}
	for k, v := range s.plants {
		out.plants[k] = v
	}
	for k, v := range s.departments {
		out.departments[k] = v
	}
	for k, v := range s.workCenters {
		out.workCenters[k] = v
	}
	for k, v := range s.costCenters {
		out.costCenters[k] = v
	}
	return out
}

// Store holds every entity. The zero value is not usable, call NewStore.
type Store struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	clock  time.Time
	data   state
	writes int
}

func NewStore() *Store {
	return &Store{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		data: state{
			plants:      map[int64]plant.Plant{},
			departments: map[int64]department.Department{},
			workCenters: map[int64]workcenter.WorkCenter{},
			costCenters: map[int64]costcenter.CostCenter{},
		},
	}
}

// InTx serialises transactions and rolls the store back when fn fails.
func (s *Store) InTx(ctx context.Context, fn func(context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	writes := s.writes
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.writes = writes
		s.mu.Unlock()
		return err
	}
	return nil
}

// Writes counts committed mutating calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) Plants() *PlantRepository           { return &PlantRepository{s} }
func (s *Store) Departments() *DepartmentRepository { return &DepartmentRepository{s} }
func (s *Store) WorkCenters() *WorkCenterRepository { return &WorkCenterRepository{s} }
func (s *Store) CostCenters() *CostCenterRepository { return &CostCenterRepository{s} }

// tick advances the fake clock so timestamps are strictly increasing.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) newID() int64 {
	s.data.nextID++
	return s.data.nextID
}

func uniqueViolation(table, constraint, column string) error {
	return &pgconn.PgError{
		Code:           "23505",
		TableName:      table,
		ConstraintName: constraint,
		Detail:         "Key (" + column + ")=(...) already exists.",
	}
}

func fkViolation(table, constraint string) error {
	return &pgconn.PgError{Code: "23503", TableName: table, ConstraintName: constraint}
}

func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (s *Store) plantMatches(plantID int64, term string) bool {
	p, ok := s.data.plants[plantID]
	return ok && matches(term, p.Name, p.Code)
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func equalCode(a *string, b string) bool {
	return a != nil && *a == b
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortNewest[T any](items []T, key func(T) (time.Time, time.Time, int64)) {
	sort.SliceStable(items, func(i, j int) bool {
		ui, ci, ii := key(items[i])
		uj, cj, ij := key(items[j])
		if !ui.Equal(uj) {
			return ui.After(uj)
		}
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return ii > ij
	})
}

func (s *Store) plantRef(id int64) *lookup.PlantRef {
	p, ok := s.data.plants[id]
	if !ok {
		return nil
	}
	return &lookup.PlantRef{ID: p.ID, Name: p.Name, Code: p.Code}
}

func (s *Store) departmentRef(id int64) *lookup.DepartmentRef {
	d, ok := s.data.departments[id]
	if !ok {
		return nil
	}
	return &lookup.DepartmentRef{ID: d.ID, Name: d.Name, Code: d.Code}
}

func (s *Store) costCenterRef(id *int64) *lookup.CostCenterRef {
	if id == nil {
		return nil
	}
	c, ok := s.data.costCenters[*id]
	if !ok {
		return nil
	}
	return &lookup.CostCenterRef{ID: c.ID, Name: c.Name, Code: c.Code}
}
