package services

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/testhelpers"
	"github.com/plantops/plantops/pkg/eventbus"
)

type fixture struct {
	store       *testhelpers.Store
	reg         Registries
	plants      *PlantService
	departments *DepartmentService
	workCenters *WorkCenterService
	costCenters *CostCenterService
	export      *ExportService

	mu      sync.Mutex
	changes []events.EntityChanged
	synced  []events.AssignmentsSynced
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testhelpers.NewStore()
	reg := Registries{
		Plants:      store.Plants(),
		Departments: store.Departments(),
		WorkCenters: store.WorkCenters(),
		CostCenters: store.CostCenters(),
	}
	logger, _ := test.NewNullLogger()
	bus := eventbus.NewEventPublisher(logger)
	f := &fixture{
		store:       store,
		reg:         reg,
		plants:      NewPlantService(reg, store, bus),
		departments: NewDepartmentService(reg, store, bus),
		workCenters: NewWorkCenterService(reg, store, bus),
		costCenters: NewCostCenterService(reg, store, bus),
		export:      NewExportService(reg),
	}
	bus.Subscribe(func(e *events.EntityChanged) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.changes = append(f.changes, *e)
	})
	bus.Subscribe(func(e *events.AssignmentsSynced) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.synced = append(f.synced, *e)
	})
	return f
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func (f *fixture) plant(t *testing.T, name, code string) int64 {
	t.Helper()
	p, err := f.plants.Create(context.Background(), CreatePlantInput{Name: name, Code: code})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) department(t *testing.T, plantID int64, name string) int64 {
	t.Helper()
	d, err := f.departments.Create(context.Background(), CreateDepartmentInput{PlantID: plantID, Name: name})
	require.NoError(t, err)
	return d.ID
}

func (f *fixture) workCenter(t *testing.T, plantID, depID int64, name string) int64 {
	t.Helper()
	w, err := f.workCenters.Create(context.Background(), CreateWorkCenterInput{PlantID: plantID, DepID: depID, Name: name})
	require.NoError(t, err)
	return w.ID
}

func (f *fixture) costCenter(t *testing.T, plantID, depID int64, name string, workCenterIDs ...int64) int64 {
	t.Helper()
	res, err := f.costCenters.Create(context.Background(), CreateCostCenterInput{
		PlantID:       plantID,
		DepID:         depID,
		Name:          name,
		WorkCenterIDs: workCenterIDs,
	})
	require.NoError(t, err)
	return res.CostCenter.ID
}

// members returns the ids of the work centers referencing costCenterID.
func (f *fixture) members(t *testing.T, costCenterID int64) []int64 {
	t.Helper()
	ids, err := f.reg.WorkCenters.ListIDsByCostCenter(context.Background(), costCenterID)
	require.NoError(t, err)
	return ids
}

func (f *fixture) costCenterOf(t *testing.T, workCenterID int64) *int64 {
	t.Helper()
	w, err := f.reg.WorkCenters.GetByID(context.Background(), workCenterID)
	require.NoError(t, err)
	return w.CostCenterID
}

func requireKind(t *testing.T, err error, kind error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, status, svcErr.Status)
	if message != "" {
		require.Equal(t, message, svcErr.Message)
	}
}
