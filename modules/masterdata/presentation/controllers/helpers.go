package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/presentation/controllers/dtos"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/httpapi"
	"github.com/plantops/plantops/pkg/identifiers"
	"github.com/plantops/plantops/pkg/pagination"
	"github.com/plantops/plantops/pkg/patch"
)

// Options configure every master data controller.
type Options struct {
	// Middleware runs on the controller's subrouter, typically the bearer
	// token check.
	Middleware      []mux.MiddlewareFunc
	StrictIDLists   bool
	RequestIDHeader string
}

func (o Options) requestIDHeader() string {
	if o.RequestIDHeader == "" {
		return "X-Request-ID"
	}
	return o.RequestIDHeader
}

const idRoute = "/{id:[0-9]+}"

func writeServiceError(w http.ResponseWriter, r *http.Request, opts Options, err error) {
	meta := httpapi.RequestMeta(w, r, opts.requestIDHeader())
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		_ = httpapi.WriteError(w, svcErr.Status, svcErr.Code, svcErr.Message, meta)
		return
	}
	composables.UseLogger(r.Context()).WithError(err).Error("unhandled master data error")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, services.CodeInternal, "Internal server error", meta)
}

func writeMessage(w http.ResponseWriter, status int, message string, id *int64) {
	_ = httpapi.WriteJSON(w, status, &httpapi.MessageResponse{Message: message, ID: id})
}

func decodeBody(r *http.Request, dst any) error {
	if err := httpapi.DecodeJSON(r, dst); err != nil {
		return services.NewValidationError("Invalid JSON body")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, ok, err := identifiers.ParseID(mux.Vars(r)["id"])
	if err != nil || !ok || id <= 0 {
		return 0, services.NewValidationError("Invalid id")
	}
	return id, nil
}

func queryID(raw, field string) (int64, error) {
	id, _, err := identifiers.ParseID(raw)
	if err != nil {
		return 0, services.NewValidationError(field + " must be a number")
	}
	return id, nil
}

// listParams decodes the shared page/limit/search/parent filters.
func listParams(r *http.Request) (services.ListParams, error) {
	q, err := composables.UseQuery(&dtos.ListQuery{}, r)
	if err != nil {
		return services.ListParams{}, services.NewValidationError("Invalid query string")
	}
	params := services.ListParams{
		Page:   pagination.Parse(q.Page, q.Limit),
		Search: q.Search,
	}
	if params.PlantID, err = queryID(q.PlantID, "plantId"); err != nil {
		return params, err
	}
	if params.DepID, err = queryID(q.DepID, "depId"); err != nil {
		return params, err
	}
	if params.CostCenterID, err = queryID(q.CostCenterID, "costCenterId"); err != nil {
		return params, err
	}
	return params, nil
}

// bodyID reads a required id field. A missing field yields 0 so that the
// service reports its own required-fields message.
func bodyID(v identifiers.Value, field string) (int64, error) {
	id, _, err := v.ID()
	if err != nil {
		return 0, services.NewValidationError(field + " must be a number")
	}
	return id, nil
}

// optionalBodyID is nil when the field is absent or null.
func optionalBodyID(v identifiers.Value, field string) (*int64, error) {
	id, ok, err := v.ID()
	if err != nil {
		return nil, services.NewValidationError(field + " must be a number")
	}
	if !ok {
		return nil, nil
	}
	return &id, nil
}

// presentBodyID is nil when the field is absent. An explicit null keeps the
// field present with id 0, which the services reject as missing.
func presentBodyID(v identifiers.Value, field string) (*int64, error) {
	if !v.Set {
		return nil, nil
	}
	id, err := bodyID(v, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func nullableBodyID(v identifiers.Value, field string) (patch.Nullable[int64], error) {
	if !v.Set {
		return patch.Nullable[int64]{}, nil
	}
	id, err := optionalBodyID(v, field)
	if err != nil {
		return patch.Nullable[int64]{}, err
	}
	return patch.Ptr(id), nil
}

func bodyText(v identifiers.Value, field string) (string, error) {
	s, _, err := v.Text()
	if err != nil {
		return "", services.NewValidationError(field + " must be a string")
	}
	return s, nil
}

func optionalBodyText(v identifiers.Value, field string) (*string, error) {
	s, ok, err := v.Text()
	if err != nil {
		return nil, services.NewValidationError(field + " must be a string")
	}
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// presentBodyText is nil when the field is absent; null reads as "".
func presentBodyText(v identifiers.Value, field string) (*string, error) {
	if !v.Set {
		return nil, nil
	}
	s, err := bodyText(v, field)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func nullableBodyText(v identifiers.Value, field string) (patch.Nullable[string], error) {
	if !v.Set {
		return patch.Nullable[string]{}, nil
	}
	s, err := optionalBodyText(v, field)
	if err != nil {
		return patch.Nullable[string]{}, err
	}
	return patch.Ptr(s), nil
}

func bodyIDs(v identifiers.Value, field string, strict bool) ([]int64, error) {
	ids, err := v.IDs(strict)
	if err != nil {
		return nil, services.NewValidationError(field + " must be a list of ids")
	}
	return ids, nil
}

func writeWorkbook(w http.ResponseWriter, entity events.Entity, data []byte) {
	w.Header().Set("Content-Type", services.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.Filename(entity)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
