// Package lookup holds the small projections shared between entities:
// dropdown selections and the parent/child references embedded in list rows.
package lookup

type Selection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PlantRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type DepartmentRef struct {
	ID   int64   `json:"id"`
	Name string  `json:"depName"`
	Code *string `json:"depCode"`
}

type WorkCenterRef struct {
	ID   int64   `json:"id"`
	Name string  `json:"workName"`
	Code *string `json:"workCode"`
}

type CostCenterRef struct {
	ID   int64   `json:"id"`
	Name string  `json:"costCenterName"`
	Code *string `json:"costCenterCode"`
}
