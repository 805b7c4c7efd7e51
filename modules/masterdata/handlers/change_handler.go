package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/pkg/eventbus"
)

var committedChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "masterdata",
	Subsystem: "events",
	Name:      "published_total",
	Help:      "Total number of committed master data changes broken down by entity and action.",
}, []string{"entity", "action"})

// ChangeHandler records committed master data changes in the log and metrics.
type ChangeHandler struct {
	logger *logrus.Logger
}

func RegisterChangeHandlers(bus eventbus.EventBus, logger *logrus.Logger) *ChangeHandler {
	h := &ChangeHandler{logger: logger}
	bus.Subscribe(h.onEntityChanged)
	bus.Subscribe(h.onAssignmentsSynced)
	return h
}

func (h *ChangeHandler) onEntityChanged(e *events.EntityChanged) {
	committedChanges.WithLabelValues(string(e.Entity), string(e.Action)).Inc()
	h.logger.WithFields(logrus.Fields{
		"entity": e.Entity,
		"action": e.Action,
		"id":     e.ID,
	}).Debug("master data changed")
}

func (h *ChangeHandler) onAssignmentsSynced(e *events.AssignmentsSynced) {
	h.logger.WithFields(logrus.Fields{
		"cost_center_id": e.CostCenterID,
		"assigned":       e.Assigned,
		"cleared":        e.Cleared,
	}).Info("work center assignments synchronised")
}
