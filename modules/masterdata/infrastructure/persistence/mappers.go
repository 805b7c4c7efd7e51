package persistence

import (
	"database/sql"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/lookup"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence/models"
)

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func toDomainPlant(m *models.Plant) *plant.Plant {
	return &plant.Plant{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Code:        m.Code,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPlantRef(m models.PlantRef) *lookup.PlantRef {
	if !m.ID.Valid {
		return nil
	}
	return &lookup.PlantRef{ID: m.ID.Int64, Name: m.Name.String, Code: m.Code.String}
}

func toDepartmentRef(m models.DepartmentRef) *lookup.DepartmentRef {
	if !m.ID.Valid {
		return nil
	}
	return &lookup.DepartmentRef{ID: m.ID.Int64, Name: m.Name.String, Code: stringPtr(m.Code)}
}

func toCostCenterRef(m models.CostCenterRef) *lookup.CostCenterRef {
	if !m.ID.Valid {
		return nil
	}
	return &lookup.CostCenterRef{ID: m.ID.Int64, Name: m.Name.String, Code: stringPtr(m.Code)}
}

func toDomainDepartment(m *models.Department, p models.PlantRef) *department.Department {
	return &department.Department{
		ID:          m.ID,
		PlantID:     m.PlantID,
		Name:        m.Name,
		Code:        stringPtr(m.Code),
		Description: stringPtr(m.Description),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Plant:       toPlantRef(p),
	}
}

func toDomainWorkCenter(m *models.WorkCenter, p models.PlantRef, d models.DepartmentRef, c models.CostCenterRef) *workcenter.WorkCenter {
	return &workcenter.WorkCenter{
		ID:           m.ID,
		PlantID:      m.PlantID,
		DepID:        m.DepID,
		CostCenterID: int64Ptr(m.CostCenterID),
		Name:         m.Name,
		Code:         stringPtr(m.Code),
		Description:  stringPtr(m.Description),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Plant:        toPlantRef(p),
		Department:   toDepartmentRef(d),
		CostCenter:   toCostCenterRef(c),
	}
}

func toDomainCostCenter(m *models.CostCenter, p models.PlantRef, d models.DepartmentRef) *costcenter.CostCenter {
	return &costcenter.CostCenter{
		ID:          m.ID,
		PlantID:     m.PlantID,
		DepID:       m.DepID,
		Name:        m.Name,
		Code:        stringPtr(m.Code),
		Description: stringPtr(m.Description),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Plant:       toPlantRef(p),
		Department:  toDepartmentRef(d),
	}
}
