package workcenter

import (
	"errors"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/pkg/patch"
)

var ErrNotFound = errors.New("work center not found")

type WorkCenter struct {
	ID           int64                 `json:"id"`
	PlantID      int64                 `json:"plantId"`
	DepID        int64                 `json:"depId"`
	CostCenterID *int64                `json:"costCenterId"`
	Name         string                `json:"workName"`
	Code         *string               `json:"workCode"`
	Description  *string               `json:"workDescription"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	Plant        *lookup.PlantRef      `json:"plant,omitempty"`
	Department   *lookup.DepartmentRef `json:"department,omitempty"`
	CostCenter   *lookup.CostCenterRef `json:"costCenter,omitempty"`
}

// InScope reports whether the work center sits under (plantID, depID).
func (w *WorkCenter) InScope(plantID, depID int64) bool {
	return w.PlantID == plantID && w.DepID == depID
}

type CreateParams struct {
	PlantID      int64
	DepID        int64
	CostCenterID *int64
	Name         string
	Code         *string
	Description  *string
}

type UpdateParams struct {
	PlantID      patch.Field[int64]
	DepID        patch.Field[int64]
	CostCenterID patch.Nullable[int64]
	Name         patch.Field[string]
	Code         patch.Nullable[string]
	Description  patch.Nullable[string]
}

type FindParams struct {
	Limit        int
	Offset       int
	PlantID      int64
	DepID        int64
	CostCenterID int64
	Search       string
}
