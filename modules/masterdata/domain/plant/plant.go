package plant

import (
	"errors"
	"time"

	"github.com/plantops/plantops/pkg/patch"
)

var ErrNotFound = errors.New("plant not found")

type Plant struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"des"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateParams struct {
	Name        string
	Description string
	Code        string
}

type UpdateParams struct {
	Name        patch.Field[string]
	Description patch.Field[string]
	Code        patch.Field[string]
}

func (p UpdateParams) Empty() bool {
	return !p.Name.Set && !p.Description.Set && !p.Code.Set
}

type FindParams struct {
	Limit  int
	Offset int
	Search string
}
