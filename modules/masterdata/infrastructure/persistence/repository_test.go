package persistence_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/eventbus"
	"github.com/plantops/plantops/pkg/itf"
)

func registries() services.Registries {
	return services.Registries{
		Plants:      persistence.NewPlantRepository(),
		Departments: persistence.NewDepartmentRepository(),
		WorkCenters: persistence.NewWorkCenterRepository(),
		CostCenters: persistence.NewCostCenterRepository(),
	}
}

func TestDepartmentSearch_MatchesOwnAndPlantNames(t *testing.T) {
	dm := itf.NewDatabaseManager(t)
	ctx := dm.Context()
	reg := registries()

	p1, err := reg.Plants.Create(ctx, plant.CreateParams{Name: "Main Works", Code: "1"})
	require.NoError(t, err)
	p2, err := reg.Plants.Create(ctx, plant.CreateParams{Name: "QA Campus", Code: "2"})
	require.NoError(t, err)

	own, err := reg.Departments.Create(ctx, department.CreateParams{PlantID: p1.ID, Name: "QA Lab"})
	require.NoError(t, err)
	viaPlant, err := reg.Departments.Create(ctx, department.CreateParams{PlantID: p2.ID, Name: "Assembly"})
	require.NoError(t, err)
	_, err = reg.Departments.Create(ctx, department.CreateParams{PlantID: p1.ID, Name: "Paint"})
	require.NoError(t, err)

	found, err := reg.Departments.List(ctx, &department.FindParams{Search: "qa"})
	require.NoError(t, err)
	ids := make([]int64, 0, len(found))
	for _, d := range found {
		ids = append(ids, d.ID)
	}
	require.ElementsMatch(t, []int64{own.ID, viaPlant.ID}, ids)

	count, err := reg.Departments.Count(ctx, &department.FindParams{Search: "qa"})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestSearch_TreatsWildcardsLiterally(t *testing.T) {
	dm := itf.NewDatabaseManager(t)
	ctx := dm.Context()
	reg := registries()

	_, err := reg.Plants.Create(ctx, plant.CreateParams{Name: "North", Code: "10"})
	require.NoError(t, err)
	hit, err := reg.Plants.Create(ctx, plant.CreateParams{Name: "100% North", Code: "11"})
	require.NoError(t, err)

	found, err := reg.Plants.List(ctx, &plant.FindParams{Search: "%"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, hit.ID, found[0].ID)
}

func TestWorkCenterAssignments_RoundTrip(t *testing.T) {
	dm := itf.NewDatabaseManager(t)
	ctx := dm.Context()
	logger, _ := test.NewNullLogger()
	reg := registries()
	bus := eventbus.NewEventPublisher(logger)

	plants := services.NewPlantService(reg, services.PoolTxRunner{}, bus)
	departments := services.NewDepartmentService(reg, services.PoolTxRunner{}, bus)
	workCenters := services.NewWorkCenterService(reg, services.PoolTxRunner{}, bus)
	costCenters := services.NewCostCenterService(reg, services.PoolTxRunner{}, bus)

	p, err := plants.Create(ctx, services.CreatePlantInput{Name: "Plant A", Code: "100"})
	require.NoError(t, err)
	d, err := departments.Create(ctx, services.CreateDepartmentInput{PlantID: p.ID, Name: "QA"})
	require.NoError(t, err)
	w1, err := workCenters.Create(ctx, services.CreateWorkCenterInput{PlantID: p.ID, DepID: d.ID, Name: "Line 1"})
	require.NoError(t, err)
	w2, err := workCenters.Create(ctx, services.CreateWorkCenterInput{PlantID: p.ID, DepID: d.ID, Name: "Line 2"})
	require.NoError(t, err)

	created, err := costCenters.Create(ctx, services.CreateCostCenterInput{
		PlantID:       p.ID,
		DepID:         d.ID,
		Name:          "CC",
		WorkCenterIDs: []int64{w1.ID, w2.ID},
	})
	require.NoError(t, err)
	ccID := created.CostCenter.ID

	assigned, err := reg.WorkCenters.ListIDsByCostCenter(ctx, ccID)
	require.NoError(t, err)
	require.Equal(t, []int64{w1.ID, w2.ID}, assigned)

	ids := []int64{w2.ID}
	diff, err := costCenters.Update(ctx, ccID, services.UpdateCostCenterInput{WorkCenterIDs: &ids})
	require.NoError(t, err)
	require.Equal(t, []int64{w1.ID}, diff.Cleared)

	got, err := costCenters.GetByID(ctx, ccID)
	require.NoError(t, err)
	require.Len(t, got.WorkCenters, 1)
	require.Equal(t, w2.ID, got.WorkCenters[0].ID)

	first, err := reg.WorkCenters.GetByID(ctx, w1.ID)
	require.NoError(t, err)
	require.Nil(t, first.CostCenterID)
	require.Nil(t, first.CostCenter)

	second, err := reg.WorkCenters.GetByID(ctx, w2.ID)
	require.NoError(t, err)
	require.NotNil(t, second.CostCenter)
	require.Equal(t, "CC", second.CostCenter.Name)

	filtered, err := reg.WorkCenters.List(ctx, &workcenter.FindParams{CostCenterID: ccID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	require.NoError(t, costCenters.Delete(ctx, ccID))
	second, err = reg.WorkCenters.GetByID(ctx, w2.ID)
	require.NoError(t, err)
	require.Nil(t, second.CostCenterID)
}

func TestDuplicateCode_MapsUniqueViolation(t *testing.T) {
	dm := itf.NewDatabaseManager(t)
	ctx := dm.Context()
	logger, _ := test.NewNullLogger()
	plants := services.NewPlantService(registries(), services.PoolTxRunner{}, eventbus.NewEventPublisher(logger))

	_, err := plants.Create(ctx, services.CreatePlantInput{Name: "Plant A", Code: "100"})
	require.NoError(t, err)
	_, err = plants.Create(ctx, services.CreatePlantInput{Name: "Plant B", Code: "0100"})
	require.ErrorIs(t, err, services.ErrDuplicateCode)

	page, err := plants.List(ctx, services.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
}

func TestPlantDelete_Cascades(t *testing.T) {
	dm := itf.NewDatabaseManager(t)
	ctx := dm.Context()
	reg := registries()

	p, err := reg.Plants.Create(ctx, plant.CreateParams{Name: "Gone", Code: "7"})
	require.NoError(t, err)
	d, err := reg.Departments.Create(ctx, department.CreateParams{PlantID: p.ID, Name: "Shop"})
	require.NoError(t, err)

	require.NoError(t, reg.Plants.Delete(ctx, p.ID))
	_, err = reg.Departments.GetByID(ctx, d.ID)
	require.ErrorIs(t, err, department.ErrNotFound)
	require.ErrorIs(t, reg.Plants.Delete(ctx, p.ID), plant.ErrNotFound)
}

func TestLockByID_ReturnsRowOrNotFound(t *testing.T) {
	dm := itf.NewDatabaseManager(t)
	ctx := dm.Context()
	reg := registries()

	p, err := reg.Plants.Create(ctx, plant.CreateParams{Name: "Plant A", Code: "100"})
	require.NoError(t, err)
	d, err := reg.Departments.Create(ctx, department.CreateParams{PlantID: p.ID, Name: "QA"})
	require.NoError(t, err)
	w, err := reg.WorkCenters.Create(ctx, workcenter.CreateParams{PlantID: p.ID, DepID: d.ID, Name: "Line 1"})
	require.NoError(t, err)

	err = services.PoolTxRunner{}.InTx(ctx, func(txCtx context.Context) error {
		lockedDep, err := reg.Departments.LockByID(txCtx, d.ID)
		require.NoError(t, err)
		require.Equal(t, "QA", lockedDep.Name)
		require.Equal(t, p.ID, lockedDep.PlantID)

		lockedWC, err := reg.WorkCenters.LockByID(txCtx, w.ID)
		require.NoError(t, err)
		require.Equal(t, d.ID, lockedWC.DepID)
		require.Equal(t, "QA", lockedWC.Department.Name)

		_, err = reg.Departments.LockByID(txCtx, d.ID+1000)
		require.ErrorIs(t, err, department.ErrNotFound)
		_, err = reg.WorkCenters.LockByID(txCtx, w.ID+1000)
		require.ErrorIs(t, err, workcenter.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}
