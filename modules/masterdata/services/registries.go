package services

import (
	"context"
	"time"

	"github.com/plantops/plantops/modules/masterdata/domain/costcenter"
	"github.com/plantops/plantops/modules/masterdata/domain/department"
	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/modules/masterdata/domain/plant"
	"github.com/plantops/plantops/modules/masterdata/domain/workcenter"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/eventbus"
	"github.com/plantops/plantops/pkg/pagination"

	"github.com/sirupsen/logrus"
)

// Registries bundles the four entity repositories.
type Registries struct {
	Plants      plant.Repository
	Departments department.Repository
	WorkCenters workcenter.Repository
	CostCenters costcenter.Repository
}

// ListParams are the already-parsed list query values. Zero ids filter nothing.
type ListParams struct {
	Page         pagination.Params
	Search       string
	PlantID      int64
	DepID        int64
	CostCenterID int64
}

type Page[T any] struct {
	Items      []T
	Pagination pagination.Meta
}

// base carries what every entity service shares.
type base struct {
	reg       Registries
	tx        TxRunner
	bus       eventbus.EventBus
	hierarchy *Hierarchy
	entity    events.Entity
}

func newBase(reg Registries, tx TxRunner, bus eventbus.EventBus, entity events.Entity) base {
	if tx == nil {
		tx = PoolTxRunner{}
	}
	return base{reg: reg, tx: tx, bus: bus, hierarchy: NewHierarchy(reg), entity: entity}
}

// fail maps err to a *ServiceError, logging and counting rejected writes.
func (b *base) fail(ctx context.Context, op string, err error) error {
	mapped := mapPgError(err)
	if mapped == nil {
		return nil
	}
	kind := kindLabel(mapped)
	entry := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"entity": string(b.entity),
		"op":     op,
		"kind":   kind,
	})
	if kind == "internal" {
		entry.WithError(err).Error("master data operation failed")
	} else if op != "read" {
		recordRejection(string(b.entity), kind)
		entry.WithError(mapped).Warn("master data write rejected")
	}
	return mapped
}

func (b *base) publish(action events.Action, id int64) {
	if b.bus == nil {
		return
	}
	b.bus.Publish(&events.EntityChanged{Entity: b.entity, Action: action, ID: id, At: time.Now().UTC()})
}
