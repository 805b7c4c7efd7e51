// Package dtos holds the JSON and query shapes of the master data API.
package dtos

import (
	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/pkg/identifiers"
	"github.com/plantops/plantops/pkg/pagination"
)

// ListQuery is decoded from the query string. Ids stay strings until the
// controller parses them so a malformed value can be reported by name.
type ListQuery struct {
	Page         string `form:"page"`
	Limit        string `form:"limit"`
	Search       string `form:"search"`
	PlantID      string `form:"plantId"`
	DepID        string `form:"depId"`
	CostCenterID string `form:"costCenterId"`
}

type PlantBody struct {
	Name        identifiers.Value `json:"name"`
	Description identifiers.Value `json:"des"`
	Code        identifiers.Value `json:"code"`
}

type DepartmentBody struct {
	PlantID     identifiers.Value `json:"plantId"`
	Name        identifiers.Value `json:"depName"`
	Code        identifiers.Value `json:"depCode"`
	Description identifiers.Value `json:"depDescription"`
}

type WorkCenterBody struct {
	PlantID      identifiers.Value `json:"plantId"`
	DepID        identifiers.Value `json:"depId"`
	CostCenterID identifiers.Value `json:"costCenterId"`
	Name         identifiers.Value `json:"workName"`
	Code         identifiers.Value `json:"workCode"`
	Description  identifiers.Value `json:"workDescription"`
}

type CostCenterBody struct {
	PlantID       identifiers.Value `json:"plantId"`
	DepID         identifiers.Value `json:"depId"`
	Name          identifiers.Value `json:"costCenterName"`
	Code          identifiers.Value `json:"costCenterCode"`
	Description   identifiers.Value `json:"description"`
	WorkCenterIDs identifiers.Value `json:"workCenterIds"`
}

type PlantList struct {
	Pagination pagination.Meta `json:"pagination"`
	Plants     []*plant.Plant  `json:"plants"`
	TotalPages int             `json:"totalPages"`
}

type PageResponse[T any] struct {
	Data       []T             `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

type PlantResponse struct {
	Plant *plant.Plant `json:"plant"`
}

type DepartmentResponse struct {
	Department *department.Department `json:"department"`
}

type WorkCenterResponse struct {
	WorkCenter *workcenter.WorkCenter `json:"workCenter"`
}

type CostCenterResponse struct {
	CostCenter *costcenter.CostCenter `json:"costCenter"`
}

type PlantSelections struct {
	Plants []lookup.Selection `json:"plants"`
}

type DepartmentSelections struct {
	Departments []lookup.Selection `json:"departments"`
}

type WorkCenterSelections struct {
	WorkCenters []lookup.Selection `json:"workCenters"`
}

type CostCenterCreated struct {
	Message      string `json:"message"`
	CostCenterID int64  `json:"costCenterId"`
}
