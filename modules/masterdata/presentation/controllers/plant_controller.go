package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/presentation/controllers/dtos"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/httpapi"
)

type PlantController struct {
	plants   *services.PlantService
	exporter *services.ExportService
	opts     Options
	basePath string
}

func NewPlantController(app application.Application, opts Options) application.Controller {
	return &PlantController{
		plants:   app.Service(services.PlantService{}).(*services.PlantService),
		exporter: app.Service(services.ExportService{}).(*services.ExportService),
		opts:     opts,
		basePath: "/api/plants",
	}
}

func (c *PlantController) Key() string {
	return c.basePath
}

func (c *PlantController) Register(r *mux.Router) {
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

func (c *PlantController) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	page, err := c.plants.List(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.PlantList{
		Pagination: page.Pagination,
		Plants:     page.Items,
		TotalPages: page.Pagination.TotalPages,
	})
}

func (c *PlantController) Selections(w http.ResponseWriter, r *http.Request) {
	items, err := c.plants.Selections(r.Context())
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.PlantSelections{Plants: items})
}

func (c *PlantController) Export(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	data, err := c.exporter.Export(r.Context(), events.EntityPlant, params)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeWorkbook(w, events.EntityPlant, data)
}

func (c *PlantController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	p, err := c.plants.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.PlantResponse{Plant: p})
}

func (c *PlantController) Create(w http.ResponseWriter, r *http.Request) {
	var body dtos.PlantBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := createPlantInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	created, err := c.plants.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Plant added successfully", &created.ID)
}

func (c *PlantController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	var body dtos.PlantBody
	if err := decodeBody(r, &body); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	in, err := updatePlantInput(body)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if err := c.plants.Update(r.Context(), id, in); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Plant updated successfully", nil)
}

func (c *PlantController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	if err := c.plants.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, c.opts, err)
		return
	}
	writeMessage(w, http.StatusOK, "Plant deleted successfully", nil)
}

func createPlantInput(body dtos.PlantBody) (services.CreatePlantInput, error) {
	var in services.CreatePlantInput
	var err error
	if in.Name, err = bodyText(body.Name, "name"); err != nil {
		return in, err
	}
	if in.Description, err = bodyText(body.Description, "des"); err != nil {
		return in, err
	}
	if in.Code, err = bodyText(body.Code, "code"); err != nil {
		return in, err
	}
	return in, nil
}

func updatePlantInput(body dtos.PlantBody) (services.UpdatePlantInput, error) {
	var in services.UpdatePlantInput
	var err error
	if in.Name, err = presentBodyText(body.Name, "name"); err != nil {
		return in, err
	}
	if in.Description, err = presentBodyText(body.Description, "des"); err != nil {
		return in, err
	}
	if in.Code, err = presentBodyText(body.Code, "code"); err != nil {
		return in, err
	}
	return in, nil
}
