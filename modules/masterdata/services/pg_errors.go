package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
)

const (
	msgPlantCodeExists      = "Plant code already exists"
	msgDepartmentCodeExists = "Department code already exists"
	msgWorkCenterCodeExists = "Work center code already exists"
	msgCostCenterCodeExists = "Cost center code already exists"
	msgDuplicateValue       = "Duplicate value already exists"
)

// uniqueConstraints maps storage unique constraints (and the column named
// in the violation detail) to the code field that collided.
var uniqueConstraints = []struct {
	constraint string
	column     string
	message    string
}{
	{"plant_code_key", "(code)", msgPlantCodeExists},
	{"department_dep_code_key", "(dep_code)", msgDepartmentCodeExists},
	{"work_center_work_code_key", "(work_code)", msgWorkCenterCodeExists},
	{"cost_center_cost_center_code_key", "(cost_center_code)", msgCostCenterCodeExists},
}

func duplicateMessage(pgErr *pgconn.PgError) string {
	for _, c := range uniqueConstraints {
		if pgErr.ConstraintName == c.constraint {
			return c.message
		}
	}
	for _, c := range uniqueConstraints {
		if strings.Contains(pgErr.Detail, c.column) && (pgErr.TableName == "" || strings.HasPrefix(c.constraint, pgErr.TableName+"_")) {
			return c.message
		}
	}
	return msgDuplicateValue
}

// mapPgError turns repository errors into *ServiceError. Errors that are
// already service errors pass through unchanged.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case errors.Is(err, plant.ErrNotFound):
		return notFound("Plant not found", err)
	case errors.Is(err, department.ErrNotFound):
		return notFound("Department not found", err)
	case errors.Is(err, workcenter.ErrNotFound):
		return notFound("Work center not found", err)
	case errors.Is(err, costcenter.ErrNotFound):
		return notFound("Cost center not found", err)
	case errors.Is(err, pgx.ErrNoRows):
		return notFound("Record not found", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return internal(err)
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return duplicateCode(duplicateMessage(pgErr), err)
	case "23503": // foreign_key_violation
		return notFound("Referenced record no longer exists", err)
	case "22001": // string_data_right_truncation
		return NewValidationError("Value too long")
	default:
		return internal(err)
	}
}
