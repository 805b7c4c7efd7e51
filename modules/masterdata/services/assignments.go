package services

import (
	"context"

	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/pkg/identifiers"
)

type AssignmentDiff struct {
	Assigned []int64
	Cleared  []int64
}

func (d AssignmentDiff) Empty() bool {
	return len(d.Assigned) == 0 && len(d.Cleared) == 0
}

// AssignmentSynchronizer makes the set of work centers referencing a cost
// center equal a target set. Callers hold the cost center's row lock.
type AssignmentSynchronizer struct {
	workCenters workcenter.Repository
}

func NewAssignmentSynchronizer(workCenters workcenter.Repository) *AssignmentSynchronizer {
	return &AssignmentSynchronizer{workCenters: workCenters}
}

// Sync assigns every target work center to costCenterID, then clears the
// reference of any other work center still pointing at it.
func (s *AssignmentSynchronizer) Sync(ctx context.Context, costCenterID int64, target []int64) (AssignmentDiff, error) {
	target = identifiers.Unique(target)

	before, err := s.workCenters.ListIDsByCostCenter(ctx, costCenterID)
	if err != nil {
		return AssignmentDiff{}, err
	}

	if len(target) > 0 {
		if _, err := s.workCenters.SetCostCenter(ctx, target, costCenterID); err != nil {
			return AssignmentDiff{}, err
		}
	}

	// post-assign state, not the snapshot taken above
	current, err := s.workCenters.ListIDsByCostCenter(ctx, costCenterID)
	if err != nil {
		return AssignmentDiff{}, err
	}
	stale := subtract(current, target)
	if len(stale) > 0 {
		if _, err := s.workCenters.ClearCostCenter(ctx, costCenterID, stale); err != nil {
			return AssignmentDiff{}, err
		}
	}

	diff := AssignmentDiff{Assigned: subtract(target, before), Cleared: stale}
	recordAssignmentChanges(len(diff.Assigned), len(diff.Cleared))
	return diff, nil
}

// subtract returns the members of a not in b, keeping a's order.
func subtract(a, b []int64) []int64 {
	skip := make(map[int64]struct{}, len(b))
	for _, id := range b {
		skip[id] = struct{}{}
	}
	out := make([]int64, 0, len(a))
	for _, id := range a {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
