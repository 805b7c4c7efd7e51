package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/presentation/controllers/dtos"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/httpapi"
)

type DepartmentController struct {
	departments *services.DepartmentService
	exporter    *services.ExportService
	opts        Options
	basePath    string
}

func NewDepartmentController(app application.Application, opts Options) application.Controller {
	return &DepartmentController{
		departments: app.Service(services.DepartmentService{}).(*services.DepartmentService),
		exporter:    app.Service(services.ExportService{}).(*services.ExportService),
		opts:        opts,
		basePath:    "/api/departments",
	}
}

func (c *DepartmentController) Key() string {
	return c.basePath
}

func (c *DepartmentController) Register(r *mux.Router) {
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

func (c *DepartmentController) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	page, err := c.departments.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.PageResponse[*department.Department]{
		Data:       page.Items,
		Pagination: page.Pagination,
	})
}

func (c *DepartmentController) Selections(w http.ResponseWriter, r *http.Request) {
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

func (c *DepartmentController) Export(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	data, err := c.exporter.Export(r.Context(), events.EntityDepartment, params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeWorkbook(w, events.EntityDepartment, data)
}

func (c *DepartmentController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	d, err := c.departments.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.DepartmentResponse{Department: d})
}

func (c *DepartmentController) Create(w http.ResponseWriter, r *http.Request) {
	var body dtos.DepartmentBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := createDepartmentInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	created, err := c.departments.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Department added successfully", &created.ID)
}

func (c *DepartmentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	var body dtos.DepartmentBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := updateDepartmentInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if err := c.departments.Update(r.Context(), id, in); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Department updated successfully", nil)
}

func (c *DepartmentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if err := c.departments.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Department deleted successfully", nil)
}

func createDepartmentInput(body dtos.DepartmentBody) (services.CreateDepartmentInput, error) {
	var in services.CreateDepartmentInput
	var err error
	if in.PlantID, err = bodyID(body.PlantID, "plantId"); err != nil {
		return in, err
	}
	if in.Name, err = bodyText(body.Name, "depName"); err != nil {
		return in, err
	}
	if in.Code, err = optionalBodyText(body.Code, "depCode"); err != nil {
		return in, err
	}
	if in.Description, err = optionalBodyText(body.Description, "depDescription"); err != nil {
		return in, err
	}
	return in, nil
}

func updateDepartmentInput(body dtos.DepartmentBody) (services.UpdateDepartmentInput, error) {
	var in services.UpdateDepartmentInput
	var err error
	if in.PlantID, err = presentBodyID(body.PlantID, "plantId"); err != nil {
		return in, err
	}
	if in.Name, err = presentBodyText(body.Name, "depName"); err != nil {
		return in, err
	}
	if in.Code, err = nullableBodyText(body.Code, "depCode"); err != nil {
		return in, err
	}
	if in.Description, err = nullableBodyText(body.Description, "depDescription"); err != nil {
		return in, err
	}
	return in, nil
}
