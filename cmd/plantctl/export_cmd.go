package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/pagination"
)

type exportOutput struct {
	Command    string `json:"command"`
	Entity     string `json:"entity"`
	File       string `json:"file"`
	Bytes      int    `json:"bytes"`
	DurationMS int64  `json:"duration_ms"`
}

func parseEntity(raw string) (events.Entity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "plants", "plant":
		return events.EntityPlant, nil
	case "departments", "department":
		return events.EntityDepartment, nil
	case "work-centers", "work_center", "workcenters":
		return events.EntityWorkCenter, nil
	case "cost-centers", "cost_center", "costcenters":
		return events.EntityCostCenter, nil
	}
	return "", fmt.Errorf("unknown entity %q (want plants, departments, work-centers or cost-centers)", raw)
}

func newExportCmd() *cobra.Command {
	var (
		output       string
		search       string
		plantID      int64
		depID        int64
		costCenterID int64
	)

	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Write an entity list to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := parseEntity(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = services.Filename(entity)
			}

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			exporter := services.NewExportService(services.Registries{
				Plants:      persistence.NewPlantRepository(),
				Departments: persistence.NewDepartmentRepository(),
				WorkCenters: persistence.NewWorkCenterRepository(),
				CostCenters: persistence.NewCostCenterRepository(),
			})

			start := time.Now()
			data, err := exporter.Export(ctx, entity, services.ListParams{
				Page:         pagination.Parse("", ""),
				Search:       search,
				PlantID:      plantID,
				DepID:        depID,
				CostCenterID: costCenterID,
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			return writeJSON(exportOutput{
				Command:    "export",
				Entity:     string(entity),
				File:       output,
				Bytes:      len(data),
				DurationMS: time.Since(start).Milliseconds(),
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to the entity's download name)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive search filter")
	cmd.Flags().Int64Var(&plantID, "plant", 0, "Filter by plant id")
	cmd.Flags().Int64Var(&depID, "dep", 0, "Filter by department id")
	cmd.Flags().Int64Var(&costCenterID, "cost-center", 0, "Filter work centers by cost center id")
	return cmd
}
