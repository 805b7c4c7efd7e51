package events

import "time"

type Entity string

const (
	EntityPlant      Entity = "plant"
	EntityDepartment Entity = "department"
	EntityWorkCenter Entity = "work_center"
	EntityCostCenter Entity = "cost_center"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EntityChanged is published after a write commits.
type EntityChanged struct {
	Entity Entity
	Action Action
	ID     int64
	At     time.Time
}

// AssignmentsSynced is published after a cost center's work center set was
// reconciled and the transaction committed.
type AssignmentsSynced struct {
	CostCenterID int64
	Assigned     []int64
	Cleared      []int64
	At           time.Time
}
