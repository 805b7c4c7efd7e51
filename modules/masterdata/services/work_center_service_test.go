package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/pkg/eventbus"
	"github.com/plantops/plantops/pkg/pagination"
	"github.com/plantops/plantops/pkg/patch"
)

func TestWorkCenterService_DepartmentFromOtherPlant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.plant(t, "Plant 1", "1")
	p2 := f.plant(t, "Plant 2", "2")
	_, err := f.departments.Create(ctx, CreateDepartmentInput{PlantID: p1, Name: "QA", Code: strPtr("1")})
	require.NoError(t, err)
	foreign := f.department(t, p2, "Foreign")
	writes := f.store.Writes()

	_, err = f.workCenters.Create(ctx, CreateWorkCenterInput{PlantID: p1, DepID: foreign, Name: "Line"})
	requireKind(t, err, ErrNotFound, http.StatusNotFound, "Department does not belong to the selected plant")
	require.ErrorIs(t, err, ErrScopeMismatch)
	require.Equal(t, writes, f.store.Writes())
}

func TestWorkCenterService_MissingParents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.plant(t, "Plant 1", "1")

	_, err := f.workCenters.Create(ctx, CreateWorkCenterInput{PlantID: 99, DepID: 1, Name: "Line"})
	requireKind(t, err, ErrNotFound, http.StatusNotFound, "Plant not found")

	_, err = f.workCenters.Create(ctx, CreateWorkCenterInput{PlantID: p, DepID: 99, Name: "Line"})
	requireKind(t, err, ErrNotFound, http.StatusNotFound, "Department does not belong to the selected plant")
	require.NotErrorIs(t, err, ErrScopeMismatch)

	_, err = f.workCenters.Create(ctx, CreateWorkCenterInput{PlantID: p, Name: "Line"})
	requireKind(t, err, ErrValidation, http.StatusBadRequest, "plantId, depId and workName are required")
}

func TestWorkCenterService_CostCenterScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.plant(t, "Plant 1", "1")
	d1 := f.department(t, p, "QA")
	d2 := f.department(t, p, "Ops")
	cc := f.costCenter(t, p, d2, "Ops CC")

	_, err := f.workCenters.Create(ctx, CreateWorkCenterInput{PlantID: p, DepID: d1, CostCenterID: &cc, Name: "Line"})
	requireKind(t, err, ErrScopeMismatch, http.StatusBadRequest, "Cost center must belong to the selected plant and department")

	_, err = f.workCenters.Create(ctx, CreateWorkCenterInput{PlantID: p, DepID: d1, CostCenterID: int64Ptr(777), Name: "Line"})
	requireKind(t, err, ErrNotFound, http.StatusNotFound, "Cost center not found")

	w, err := f.workCenters.Create(ctx, CreateWorkCenterInput{PlantID: p, DepID: d2, CostCenterID: &cc, Name: "Line", Code: strPtr("5")})
	require.NoError(t, err)
	require.Equal(t, cc, *w.CostCenterID)
	require.Equal(t, "Ops CC", w.CostCenter.Name)
}

func TestWorkCenterService_UpdateScopeChangeClearsCostCenter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.plant(t, "Plant 1", "1")
	d1 := f.department(t, p, "QA")
	d2 := f.department(t, p, "Ops")
	w := f.workCenter(t, p, d1, "Line")
	cc := f.costCenter(t, p, d1, "QA CC", w)

	// renaming keeps the assignment
	require.NoError(t, f.workCenters.Update(ctx, w, UpdateWorkCenterInput{Name: strPtr("Line 1")}))
	require.Equal(t, cc, *f.costCenterOf(t, w))

	require.NoError(t, f.workCenters.Update(ctx, w, UpdateWorkCenterInput{DepID: &d2}))
	require.Nil(t, f.costCenterOf(t, w))

	got, err := f.workCenters.GetByID(ctx, w)
	require.NoError(t, err)
	require.Equal(t, d2, got.DepID)
	require.Equal(t, "Line 1", got.Name)
}

// staleWorkCenters serves an outdated row from GetByID, as a read taken
// before a concurrent commit would.
type staleWorkCenters struct {
	workcenter.Repository
	snapshot workcenter.WorkCenter
}

func (r staleWorkCenters) GetByID(ctx context.Context, id int64) (*workcenter.WorkCenter, error) {
	if id == r.snapshot.ID {
		w := r.snapshot
		return &w, nil
	}
	return r.Repository.GetByID(ctx, id)
}

func TestWorkCenterService_UpdateReadsLockedRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.plant(t, "Plant 1", "1")
	d1 := f.department(t, p, "QA")
	d2 := f.department(t, p, "Ops")
	w := f.workCenter(t, p, d1, "Line")

	before, err := f.reg.WorkCenters.GetByID(ctx, w)
	require.NoError(t, err)
	require.Nil(t, before.CostCenterID)

	// assigned after the snapshot was taken
	f.costCenter(t, p, d1, "QA CC", w)

	reg := f.reg
	reg.WorkCenters = staleWorkCenters{Repository: f.reg.WorkCenters, snapshot: *before}
	logger, _ := test.NewNullLogger()
	svc := NewWorkCenterService(reg, f.store, eventbus.NewEventPublisher(logger))

	require.NoError(t, svc.Update(ctx, w, UpdateWorkCenterInput{DepID: &d2}))
	require.Nil(t, f.costCenterOf(t, w))
}

func TestWorkCenterService_UpdateCostCenter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.plant(t, "Plant 1", "1")
	d := f.department(t, p, "QA")
	other := f.department(t, p, "Ops")
	w := f.workCenter(t, p, d, "Line")
	cc := f.costCenter(t, p, d, "QA CC")
	foreign := f.costCenter(t, p, other, "Ops CC")

	require.NoError(t, f.workCenters.Update(ctx, w, UpdateWorkCenterInput{CostCenterID: patch.Value(cc)}))
	require.Equal(t, cc, *f.costCenterOf(t, w))

	err := f.workCenters.Update(ctx, w, UpdateWorkCenterInput{CostCenterID: patch.Value(foreign)})
	requireKind(t, err, ErrScopeMismatch, http.StatusBadRequest, "")
	require.Equal(t, cc, *f.costCenterOf(t, w))

	require.NoError(t, f.workCenters.Update(ctx, w, UpdateWorkCenterInput{CostCenterID: patch.Null[int64]()}))
	require.Nil(t, f.costCenterOf(t, w))

	err = f.workCenters.Update(ctx, 999, UpdateWorkCenterInput{Name: strPtr("x")})
	requireKind(t, err, ErrNotFound, http.StatusNotFound, "Work center not found")
}

func TestWorkCenterService_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.plant(t, "Plant 1", "1")
	d := f.department(t, p, "QA")
	w1 := f.workCenter(t, p, d, "Press")
	f.workCenter(t, p, d, "Lathe")
	cc := f.costCenter(t, p, d, "CC", w1)

	page, err := f.workCenters.List(ctx, ListParams{Page: pagination.Parse("", ""), CostCenterID: cc})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, w1, page.Items[0].ID)
	require.Equal(t, "CC", page.Items[0].CostCenter.Name)
	require.Equal(t, "QA", page.Items[0].Department.Name)

	page, err = f.workCenters.List(ctx, ListParams{Page: pagination.Parse("", ""), Search: "plant 1"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	selections, err := f.workCenters.Selections(ctx, p, d)
	require.NoError(t, err)
	require.Equal(t, "Lathe", selections[0].Name)
	require.Equal(t, "Press", selections[1].Name)
}
