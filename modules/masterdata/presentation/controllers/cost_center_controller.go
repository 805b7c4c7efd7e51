package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/presentation/controllers/dtos"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/httpapi"
)

type CostCenterController struct {
	costCenters *services.CostCenterService
	plants      *services.PlantService
	departments *services.DepartmentService
	workCenters *services.WorkCenterService
	exporter    *services.ExportService
	opts        Options
	basePath    string
}

func NewCostCenterController(app application.Application, opts Options) application.Controller {
	return &CostCenterController{
		costCenters: app.Service(services.CostCenterService{}).(*services.CostCenterService),
		plants:      app.Service(services.PlantService{}).(*services.PlantService),
		departments: app.Service(services.DepartmentService{}).(*services.DepartmentService),
		workCenters: app.Service(services.WorkCenterService{}).(*services.WorkCenterService),
		exporter:    app.Service(services.ExportService{}).(*services.ExportService),
		opts:        opts,
		basePath:    "/api/cost-centers",
	}
}

func (c *CostCenterController) Key() string {
	return c.basePath
}

func (c *CostCenterController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.opts.Middleware...)

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/assignment-data", c.AssignmentData).Methods(http.MethodGet)
	router.HandleFunc("/selections/plants", c.PlantSelections).Methods(http.MethodGet)
	router.HandleFunc("/selections/departments", c.DepartmentSelections).Methods(http.MethodGet)
	router.HandleFunc("/selections/work-centers", c.WorkCenterSelections).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc(idRoute, c.Get).Methods(http.MethodGet)
	router.HandleFunc(idRoute, c.Update).Methods(http.MethodPut)
	router.HandleFunc(idRoute, c.Delete).Methods(http.MethodDelete)
}

func (c *CostCenterController) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	page, err := c.costCenters.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.PageResponse[*costcenter.CostCenter]{
		Data:       page.Items,
		Pagination: page.Pagination,
	})
}

func (c *CostCenterController) AssignmentData(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	data, err := c.costCenters.AssignmentData(r.Context(), params.PlantID, params.DepID)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, data)
}

func (c *CostCenterController) PlantSelections(w http.ResponseWriter, r *http.Request) {
	items, err := c.plants.Selections(r.Context())
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.PlantSelections{Plants: items})
}

func (c *CostCenterController) DepartmentSelections(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	items, err := c.departments.Selections(r.Context(), params.PlantID)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.DepartmentSelections{Departments: items})
}

func (c *CostCenterController) WorkCenterSelections(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	items, err := c.workCenters.Selections(r.Context(), params.PlantID, params.DepID)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.WorkCenterSelections{WorkCenters: items})
}

func (c *CostCenterController) Export(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	data, err := c.exporter.Export(r.Context(), events.EntityCostCenter, params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeWorkbook(w, events.EntityCostCenter, data)
}

func (c *CostCenterController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	cc, err := c.costCenters.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.CostCenterResponse{CostCenter: cc})
}

func (c *CostCenterController) Create(w http.ResponseWriter, r *http.Request) {
	var body dtos.CostCenterBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := c.createInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	res, err := c.costCenters.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, &dtos.CostCenterCreated{
		Message:      "Cost center added successfully",
		CostCenterID: res.CostCenter.ID,
	})
}

func (c *CostCenterController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	var body dtos.CostCenterBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := c.updateInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if _, err := c.costCenters.Update(r.Context(), id, in); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Cost center updated successfully", nil)
}

func (c *CostCenterController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if err := c.costCenters.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Cost center deleted successfully", nil)
}

func (c *CostCenterController) createInput(body dtos.CostCenterBody) (services.CreateCostCenterInput, error) {
	var in services.CreateCostCenterInput
	var err error
	if in.PlantID, err = bodyID(body.PlantID, "plantId"); err != nil {
		return in, err
	}
	if in.DepID, err = bodyID(body.DepID, "depId"); err != nil {
		return in, err
	}
	if in.Name, err = bodyText(body.Name, "costCenterName"); err != nil {
		return in, err
	}
	if in.Code, err = optionalBodyText(body.Code, "costCenterCode"); err != nil {
		return in, err
	}
	if in.Description, err = optionalBodyText(body.Description, "description"); err != nil {
		return in, err
	}
	if in.WorkCenterIDs, err = bodyIDs(body.WorkCenterIDs, "workCenterIds", c.opts.StrictIDLists); err != nil {
		return in, err
	}
	return in, nil
}

// updateInput leaves WorkCenterIDs nil when the key is absent; any present
// value, null included, replaces the assigned set.
func (c *CostCenterController) updateInput(body dtos.CostCenterBody) (services.UpdateCostCenterInput, error) {
	var in services.UpdateCostCenterInput
	var err error
	if in.PlantID, err = presentBodyID(body.PlantID, "plantId"); err != nil {
		return in, err
	}
	if in.DepID, err = presentBodyID(body.DepID, "depId"); err != nil {
		return in, err
	}
	if in.Name, err = presentBodyText(body.Name, "costCenterName"); err != nil {
		return in, err
	}
	if in.Code, err = nullableBodyText(body.Code, "costCenterCode"); err != nil {
		return in, err
	}
	if in.Description, err = nullableBodyText(body.Description, "description"); err != nil {
		return in, err
	}
	if body.WorkCenterIDs.Set {
		ids, err := bodyIDs(body.WorkCenterIDs, "workCenterIds", c.opts.StrictIDLists)
		if err != nil {
			return in, err
		}
		in.WorkCenterIDs = &ids
	}
	return in, nil
}
