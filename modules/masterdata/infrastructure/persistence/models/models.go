package models

import (
	"database/sql"
	"time"
)

type Plant struct {
	ID          int64
	Name        string
	Description string
	Code        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlantRef holds the LEFT JOINed plant columns of a child row.
type PlantRef struct {
	ID   sql.NullInt64
	Name sql.NullString
	Code sql.NullString
}

type Department struct {
	ID          int64
	PlantID     int64
	Name        string
	Code        sql.NullString
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DepartmentRef struct {
	ID   sql.NullInt64
	Name sql.NullString
	Code sql.NullString
}

type WorkCenter struct {
	ID           int64
	PlantID      int64
	DepID        int64
	CostCenterID sql.NullInt64
	Name         string
	Code         sql.NullString
	Description  sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CostCenterRef struct {
	ID   sql.NullInt64
	Name sql.NullString
	Code sql.NullString
}

type CostCenter struct {
	ID          int64
	PlantID     int64
	DepID       int64
	Name        string
	Code        sql.NullString
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
