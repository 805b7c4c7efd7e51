package department

import (
	"errors"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/pkg/patch"
)

var ErrNotFound = errors.New("department not found")

type Department struct {
	ID          int64            `json:"id"`
	PlantID     int64            `json:"plantId"`
	Name        string           `json:"depName"`
	Code        *string          `json:"depCode"`
	Description *string          `json:"depDescription"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Plant       *lookup.PlantRef `json:"plant,omitempty"`
}

type CreateParams struct {
	PlantID     int64
	Name        string
	Code        *string
	Description *string
}

type UpdateParams struct {
	PlantID     patch.Field[int64]
	Name        patch.Field[string]
	Code        patch.Nullable[string]
	Description patch.Nullable[string]
}

// FindParams filters lists; zero ids match any parent.
type FindParams struct {
	Limit   int
	Offset  int
	PlantID int64
	Search  string
}
