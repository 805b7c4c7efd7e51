package services

import (
	"errors"
	"net/http"
	"testing"

	gferrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		status  int
		message string
	}{
		{
			name:    "unique by constraint",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "department_dep_code_key"},
			kind:    ErrDuplicateCode,
			status:  http.StatusBadRequest,
			message: "Department code already exists",
		},
		{
			name:    "unique by detail column",
			err:     &pgconn.PgError{Code: "23505", TableName: "cost_center", Detail: "Key (cost_center_code)=(7) already exists."},
			kind:    ErrDuplicateCode,
			status:  http.StatusBadRequest,
			message: "Cost center code already exists",
		},
		{
			name:    "unique on unknown column",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Detail: "Key (email)=(a@b.c) already exists."},
			kind:    ErrDuplicateCode,
			status:  http.StatusBadRequest,
			message: "Duplicate value already exists",
		},
		{
			name:    "wrapped unique",
			err:     gferrors.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: "plant_code_key"}, "insert plant"),
			kind:    ErrDuplicateCode,
			status:  http.StatusBadRequest,
			message: "Plant code already exists",
		},
		{
			name:    "foreign key",
			err:     &pgconn.PgError{Code: "23503"},
			kind:    ErrNotFound,
			status:  http.StatusNotFound,
			message: "Referenced record no longer exists",
		},
		{
			name:    "value too long",
			err:     &pgconn.PgError{Code: "22001"},
			kind:    ErrValidation,
			status:  http.StatusBadRequest,
			message: "Value too long",
		},
		{
			name:    "no rows",
			err:     gferrors.Wrap(pgx.ErrNoRows, "select"),
			kind:    ErrNotFound,
			status:  http.StatusNotFound,
			message: "Record not found",
		},
		{
			name:    "domain not found",
			err:     gferrors.Wrap(workcenter.ErrNotFound, "update work center"),
			kind:    ErrNotFound,
			status:  http.StatusNotFound,
			message: "Work center not found",
		},
		{
			name:    "anything else",
			err:     errors.New("connection reset"),
			kind:    ErrInternal,
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, mapPgError(tt.err), tt.kind, tt.status, tt.message)
		})
	}
}

func TestMapPgError_PassesServiceErrorsThrough(t *testing.T) {
	original := scopeMismatch("nope")
	require.Same(t, original, mapPgError(gferrors.Wrap(original, "ctx")))
	require.NoError(t, mapPgError(nil))
}

func TestServiceError_KindsAreExclusive(t *testing.T) {
	err := notFound(msgDepartmentNotInPlant, scopeMismatch("detail"))
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, ErrScopeMismatch)
	require.Equal(t, "not_found", kindLabel(err))
	require.Equal(t, "validation", kindLabel(NewValidationError("x")))
	require.Equal(t, "internal", kindLabel(errors.New("x")))
	require.Equal(t, "scope_mismatch", kindLabel(scopeMismatch("x")))
	require.Equal(t, "duplicate_code", kindLabel(duplicateCode("x", nil)))
	require.Equal(t, "internal", kindLabel(internal(errors.New("boom"))))
}
