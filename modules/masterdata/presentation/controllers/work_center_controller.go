package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/modules/masterdata/presentation/controllers/dtos"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/httpapi"
)

type WorkCenterController struct {
	workCenters *services.WorkCenterService
	exporter    *services.ExportService
	opts        Options
	basePath    string
}

func NewWorkCenterController(app application.Application, opts Options) application.Controller {
	return &WorkCenterController{
		workCenters: app.Service(services.WorkCenterService{}).(*services.WorkCenterService),
		exporter:    app.Service(services.ExportService{}).(*services.ExportService),
		opts:        opts,
		basePath:    "/api/work-centers",
	}
}

func (c *WorkCenterController) Key() string {
	return c.basePath
}

func (c *WorkCenterController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.opts.Middleware...)

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/selections", c.Selections).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc(idRoute, c.Get).Methods(http.MethodGet)
	router.HandleFunc(idRoute, c.Update).Methods(http.MethodPut)
	router.HandleFunc(idRoute, c.Delete).Methods(http.MethodDelete)
}

func (c *WorkCenterController) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	page, err := c.workCenters.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.PageResponse[*workcenter.WorkCenter]{
		Data:       page.Items,
		Pagination: page.Pagination,
	})
}

func (c *WorkCenterController) Selections(w http.ResponseWriter, r *http.Request) {
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

func (c *WorkCenterController) Export(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	data, err := c.exporter.Export(r.Context(), events.EntityWorkCenter, params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeWorkbook(w, events.EntityWorkCenter, data)
}

func (c *WorkCenterController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	wc, err := c.workCenters.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.WorkCenterResponse{WorkCenter: wc})
}

func (c *WorkCenterController) Create(w http.ResponseWriter, r *http.Request) {
	var body dtos.WorkCenterBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := createWorkCenterInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	created, err := c.workCenters.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Work center added successfully", &created.ID)
}

func (c *WorkCenterController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	var body dtos.WorkCenterBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := updateWorkCenterInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if err := c.workCenters.Update(r.Context(), id, in); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Work center updated successfully", nil)
}

func (c *WorkCenterController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if err := c.workCenters.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Work center deleted successfully", nil)
}

func createWorkCenterInput(body dtos.WorkCenterBody) (services.CreateWorkCenterInput, error) {
	var in services.CreateWorkCenterInput
	var err error
	if in.PlantID, err = bodyID(body.PlantID, "plantId"); err != nil {
		return in, err
	}
	if in.DepID, err = bodyID(body.DepID, "depId"); err != nil {
		return in, err
	}
	if in.CostCenterID, err = optionalBodyID(body.CostCenterID, "costCenterId"); err != nil {
		return in, err
	}
	if in.Name, err = bodyText(body.Name, "workName"); err != nil {
		return in, err
	}
	if in.Code, err = optionalBodyText(body.Code, "workCode"); err != nil {
		return in, err
	}
	if in.Description, err = optionalBodyText(body.Description, "workDescription"); err != nil {
		return in, err
	}
	return in, nil
}

func updateWorkCenterInput(body dtos.WorkCenterBody) (services.UpdateWorkCenterInput, error) {
	var in services.UpdateWorkCenterInput
	var err error
	if in.PlantID, err = presentBodyID(body.PlantID, "plantId"); err != nil {
		return in, err
	}
	if in.DepID, err = presentBodyID(body.DepID, "depId"); err != nil {
		return in, err
	}
	if in.CostCenterID, err = nullableBodyID(body.CostCenterID, "costCenterId"); err != nil {
		return in, err
	}
	if in.Name, err = presentBodyText(body.Name, "workName"); err != nil {
		return in, err
	}
	if in.Code, err = nullableBodyText(body.Code, "workCode"); err != nil {
		return in, err
	}
	if in.Description, err = nullableBodyText(body.Description, "workDescription"); err != nil {
		return in, err
	}
	return in, nil
}
