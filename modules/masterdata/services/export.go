package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/pkg/repo"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService renders filtered entity lists as xlsx workbooks. Paging in
// the params is ignored: every matching row is exported.
type ExportService struct {
	base
}

func NewExportService(reg Registries) *ExportService {
	return &ExportService{base: newBase(reg, nil, nil, "export")}
}

// Filename is the download name used for an entity's export.
func Filename(entity events.Entity) string {
	switch entity {
	case events.EntityWorkCenter:
		return "work-centers.xlsx"
	case events.EntityCostCenter:
		return "cost-centers.xlsx"
	default:
		return string(entity) + "s.xlsx"
	}
}

func (s *ExportService) Export(ctx context.Context, entity events.Entity, params ListParams) ([]byte, error) {
	search := repo.NormalizeSearch(params.Search)
	var (
		header []any
		rows   [][]any
		err    error
	)
	switch entity {
	case events.EntityPlant:
		header = []any{"ID", "Name", "Code", "Description", "Created At", "Updated At"}
		rows, err = s.plantRows(ctx, &plant.FindParams{Search: search})
	case events.EntityDepartment:
		header = []any{"ID", "Plant", "Name", "Code", "Description", "Created At", "Updated At"}
		rows, err = s.departmentRows(ctx, &department.FindParams{PlantID: params.PlantID, Search: search})
	case events.EntityWorkCenter:
		header = []any{"ID", "Plant", "Department", "Cost Center", "Name", "Code", "Description", "Created At", "Updated At"}
		rows, err = s.workCenterRows(ctx, &workcenter.FindParams{
			PlantID:      params.PlantID,
			DepID:        params.DepID,
			CostCenterID: params.CostCenterID,
			Search:       search,
		})
	case events.EntityCostCenter:
		header = []any{"ID", "Plant", "Department", "Name", "Code", "Description", "Work Centers", "Created At", "Updated At"}
		rows, err = s.costCenterRows(ctx, &costcenter.FindParams{PlantID: params.PlantID, DepID: params.DepID, Search: search})
	default:
		return nil, s.fail(ctx, "read", fmt.Errorf("export of %q is not supported", entity))
	}
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	out, err := writeWorkbook(string(entity), header, rows)
	if err != nil {
		return nil, s.fail(ctx, "read", err)
	}
	return out, nil
}

func (s *ExportService) plantRows(ctx context.Context, params *plant.FindParams) ([][]any, error) {
	items, err := s.reg.Plants.List(ctx, params)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, p := range items {
		rows = append(rows, []any{p.ID, p.Name, p.Code, p.Description, p.CreatedAt, p.UpdatedAt})
	}
	return rows, nil
}

func (s *ExportService) departmentRows(ctx context.Context, params *department.FindParams) ([][]any, error) {
	items, err := s.reg.Departments.List(ctx, params)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, d := range items {
		plantName := ""
		if d.Plant != nil {
			plantName = d.Plant.Name
		}
		rows = append(rows, []any{d.ID, plantName, d.Name, deref(d.Code), deref(d.Description), d.CreatedAt, d.UpdatedAt})
	}
	return rows, nil
}

func (s *ExportService) workCenterRows(ctx context.Context, params *workcenter.FindParams) ([][]any, error) {
	items, err := s.reg.WorkCenters.List(ctx, params)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, w := range items {
		var plantName, depName, ccName string
		if w.Plant != nil {
			plantName = w.Plant.Name
		}
		if w.Department != nil {
			depName = w.Department.Name
		}
		if w.CostCenter != nil {
			ccName = w.CostCenter.Name
		}
		rows = append(rows, []any{
			w.ID, plantName, depName, ccName, w.Name, deref(w.Code), deref(w.Description), w.CreatedAt, w.UpdatedAt,
		})
	}
	return rows, nil
}

func (s *ExportService) costCenterRows(ctx context.Context, params *costcenter.FindParams) ([][]any, error) {
	items, err := s.reg.CostCenters.List(ctx, params)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(items))
	for i, c := range items {
		ids[i] = c.ID
	}
	members := map[int64][]string{}
	if len(ids) > 0 {
		byCostCenter, err := s.reg.WorkCenters.SummariesByCostCenters(ctx, ids)
		if err != nil {
			return nil, err
		}
		for id, refs := range byCostCenter {
			for _, r := range refs {
				members[id] = append(members[id], r.Name)
			}
		}
	}
	rows := make([][]any, 0, len(items))
	for _, c := range items {
		var plantName, depName string
		if c.Plant != nil {
			plantName = c.Plant.Name
		}
		if c.Department != nil {
			depName = c.Department.Name
		}
		rows = append(rows, []any{
			c.ID, plantName, depName, c.Name, deref(c.Code), deref(c.Description),
			strings.Join(members[c.ID], ", "), c.CreatedAt, c.UpdatedAt,
		})
	}
	return rows, nil
}

func writeWorkbook(sheet string, header []any, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

