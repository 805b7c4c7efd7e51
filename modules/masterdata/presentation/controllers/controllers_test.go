package controllers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/masterdata"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/modules/masterdata/testhelpers"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/composables"
)

const testToken = "valid-token"

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (*composables.Principal, error) {
	if token != testToken {
		return nil, errors.New("bad token")
	}
	return &composables.Principal{UserID: 1, Email: "ops@example.com"}, nil
}

type harness struct {
	t      *testing.T
	router *mux.Router
	token  string
}

func newHarness(t *testing.T, opts masterdata.ModuleOptions) *harness {
	t.Helper()
	store := testhelpers.NewStore()
	logger, _ := test.NewNullLogger()
	app := application.New(&application.ApplicationOptions{Logger: logger})

	opts.Verifier = staticVerifier{}
	opts.Registries = &services.Registries{
		Plants:      store.Plants(),
		Departments: store.Departments(),
		WorkCenters: store.WorkCenters(),
		CostCenters: store.CostCenters(),
	}
	opts.Tx = store
	require.NoError(t, masterdata.NewModule(&opts).Register(app))

	r := mux.NewRouter()
	for _, c := range app.Controllers() {
		c.Register(r)
	}
	return &harness{t: t, router: r, token: testToken}
}

func (h *harness) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	h.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

// create posts body and returns the id from the success response.
func (h *harness) create(path, body, idKey string) int64 {
	h.t.Helper()
	rec, out := h.do(http.MethodPost, path, body)
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(out[idKey].(float64))
}

func (h *harness) seed() (plantID, depID int64) {
	h.t.Helper()
	plantID = h.create("/api/plants", `{"name":"Plant A","des":"main","code":"100"}`, "id")
	depID = h.create("/api/departments", fmt.Sprintf(`{"plantId":%d,"depName":"Assembly","depCode":"10"}`, plantID), "id")
	return plantID, depID
}

func TestPlantController_CRUD(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{AuthRequired: true})

	rec, body := h.do(http.MethodPost, "/api/plants", `{"name":"Plant A","des":"main","code":"100"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Plant added successfully", body["message"])
	id := int64(body["id"].(float64))

	rec, body = h.do(http.MethodGet, fmt.Sprintf("/api/plants/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	plant := body["plant"].(map[string]any)
	require.Equal(t, "Plant A", plant["name"])
	require.Equal(t, "main", plant["des"])

	rec, body = h.do(http.MethodPut, fmt.Sprintf("/api/plants/%d", id), `{"name":"Plant B"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Plant updated successfully", body["message"])

	rec, body = h.do(http.MethodGet, "/api/plants?page=1&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, body["totalPages"])
	plants := body["plants"].([]any)
	require.Len(t, plants, 1)
	require.Equal(t, "Plant B", plants[0].(map[string]any)["name"])
	require.Equal(t, "100", plants[0].(map[string]any)["code"])
	require.EqualValues(t, 1, body["pagination"].(map[string]any)["totalCount"])

	rec, body = h.do(http.MethodDelete, fmt.Sprintf("/api/plants/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Plant deleted successfully", body["message"])

	rec, body = h.do(http.MethodGet, fmt.Sprintf("/api/plants/%d", id), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", body["code"])
	require.Equal(t, "Plant not found", body["message"])
	require.Equal(t, "req-42", body["meta"].(map[string]any)["request_id"])
}

func TestPlantController_Validation(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{})
	h.create("/api/plants", `{"name":"Plant A","code":"100"}`, "id")

	rec, body := h.do(http.MethodPost, "/api/plants", `{"name":"Plant B","code":"0100"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "DUPLICATE_CODE", body["code"])
	require.Equal(t, "Plant code already exists", body["message"])

	rec, body = h.do(http.MethodPost, "/api/plants", `{"name":"Plant B"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "name and code are required", body["message"])

	rec, body = h.do(http.MethodPost, "/api/plants", `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid JSON body", body["message"])

	rec, body = h.do(http.MethodGet, "/api/departments?plantId=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "plantId must be a number", body["message"])

	rec, _ = h.do(http.MethodGet, "/api/plants/abc", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDepartmentController_UnknownPlant(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{})

	rec, body := h.do(http.MethodPost, "/api/departments", `{"plantId":999,"depName":"Assembly"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Plant not found", body["message"])

	rec, body = h.do(http.MethodPost, "/api/departments", `{"plantId":"x","depName":"Assembly"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "plantId must be a number", body["message"])
}

func TestWorkCenterController_ScopeMismatch(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{})
	plantID, depID := h.seed()
	otherPlant := h.create("/api/plants", `{"name":"Plant B","code":"200"}`, "id")

	rec, body := h.do(http.MethodPost, "/api/work-centers", fmt.Sprintf(`{"plantId":%d,"depId":%d,"workName":"Line 1"}`, otherPlant, depID))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NOT_FOUND", body["code"])
	require.Equal(t, "Department does not belong to the selected plant", body["message"])

	rec, body = h.do(http.MethodPost, "/api/work-centers", fmt.Sprintf(`{"plantId":"%d","depId":"%d","workName":"Line 1","workCode":"7"}`, plantID, depID))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Work center added successfully", body["message"])

	rec, body = h.do(http.MethodGet, fmt.Sprintf("/api/work-centers?plantId=%d&depId=%d", plantID, depID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	require.Equal(t, "Line 1", data[0].(map[string]any)["workName"])
}

func TestCostCenterController_Assignments(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{})
	plantID, depID := h.seed()
	wc1 := h.create("/api/work-centers", fmt.Sprintf(`{"plantId":%d,"depId":%d,"workName":"Line 1"}`, plantID, depID), "id")
	wc2 := h.create("/api/work-centers", fmt.Sprintf(`{"plantId":%d,"depId":%d,"workName":"Line 2"}`, plantID, depID), "id")

	rec, body := h.do(http.MethodPost, "/api/cost-centers", fmt.Sprintf(
		`{"plantId":%d,"depId":%d,"costCenterName":"CC 1","costCenterCode":"500","workCenterIds":[%d,"bad",null]}`, plantID, depID, wc1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, "Cost center added successfully", body["message"])
	ccID := int64(body["costCenterId"].(float64))

	rec, body = h.do(http.MethodGet, fmt.Sprintf("/api/work-centers/%d", wc1), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, ccID, body["workCenter"].(map[string]any)["costCenterId"])

	rec, _ = h.do(http.MethodPut, fmt.Sprintf("/api/cost-centers/%d", ccID), fmt.Sprintf(`{"workCenterIds":[%d]}`, wc2))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = h.do(http.MethodGet, fmt.Sprintf("/api/cost-centers/%d", ccID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assigned := body["costCenter"].(map[string]any)["workCenters"].([]any)
	require.Len(t, assigned, 1)
	require.EqualValues(t, wc2, assigned[0].(map[string]any)["id"])

	rec, body = h.do(http.MethodGet, fmt.Sprintf("/api/work-centers/%d", wc1), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, body["workCenter"].(map[string]any)["costCenterId"])

	rec, _ = h.do(http.MethodGet, fmt.Sprintf("/api/cost-centers/assignment-data?plantId=%d&depId=%d", plantID, depID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = h.do(http.MethodGet, fmt.Sprintf("/api/cost-centers/selections/work-centers?plantId=%d&depId=%d", plantID, depID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["workCenters"].([]any), 2)
}

func TestCostCenterController_StrictIDLists(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{StrictIDLists: true})
	plantID, depID := h.seed()

	rec, body := h.do(http.MethodPost, "/api/cost-centers", fmt.Sprintf(
		`{"plantId":%d,"depId":%d,"costCenterName":"CC 1","workCenterIds":[1,"bad"]}`, plantID, depID))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "workCenterIds must be a list of ids", body["message"])
}

func TestCostCenterController_WorkCentersOutOfScope(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{})
	plantID, depID := h.seed()
	otherDep := h.create("/api/departments", fmt.Sprintf(`{"plantId":%d,"depName":"Paint"}`, plantID), "id")
	wc := h.create("/api/work-centers", fmt.Sprintf(`{"plantId":%d,"depId":%d,"workName":"Line 1"}`, plantID, otherDep), "id")

	rec, body := h.do(http.MethodPost, "/api/cost-centers", fmt.Sprintf(
		`{"plantId":%d,"depId":%d,"costCenterName":"CC 1","workCenterIds":[%d]}`, plantID, depID, wc))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "SCOPE_MISMATCH", body["code"])

	rec, body = h.do(http.MethodGet, "/api/cost-centers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, body["data"])
}

func TestExport_Headers(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{})
	h.seed()

	rec, _ := h.do(http.MethodGet, "/api/departments/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, services.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	require.NotZero(t, rec.Body.Len())
}

func TestAuth_Required(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{AuthRequired: true})

	h.token = ""
	rec, body := h.do(http.MethodGet, "/api/plants", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHORIZED", body["code"])

	h.token = "forged"
	rec, _ = h.do(http.MethodGet, "/api/plants", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	h.token = testToken
	rec, _ = h.do(http.MethodGet, "/api/plants", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_Optional(t *testing.T) {
	h := newHarness(t, masterdata.ModuleOptions{AuthRequired: false})
	h.token = ""
	rec, _ := h.do(http.MethodGet, "/api/plants", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
