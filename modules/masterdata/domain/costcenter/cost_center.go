package costcenter

import (
	"errors"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/pkg/patch"
)

var ErrNotFound = errors.New("cost center not found")

type CostCenter struct {
	ID          int64                  `json:"id"`
	PlantID     int64                  `json:"plantId"`
	DepID       int64                  `json:"depId"`
	Name        string                 `json:"costCenterName"`
	Code        *string                `json:"costCenterCode"`
	Description *string                `json:"description"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	Plant       *lookup.PlantRef       `json:"plant,omitempty"`
	Department  *lookup.DepartmentRef  `json:"department,omitempty"`
	WorkCenters []lookup.WorkCenterRef `json:"workCenters"`
}

func (c *CostCenter) InScope(plantID, depID int64) bool {
	return c.PlantID == plantID && c.DepID == depID
}

type CreateParams struct {
	PlantID     int64
	DepID       int64
	Name        string
	Code        *string
	Description *string
}

type UpdateParams struct {
	PlantID     patch.Field[int64]
	DepID       patch.Field[int64]
	Name        patch.Field[string]
	Code        patch.Nullable[string]
	Description patch.Nullable[string]
}

type FindParams struct {
	Limit   int
	Offset  int
	PlantID int64
	DepID   int64
	Search  string
}
