package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	writeRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "masterdata",
		Subsystem: "write",
		Name:      "rejections_total",
		Help:      "Total number of rejected master data writes broken down by entity and error kind.",
	}, []string{"entity", "kind"})

	assignmentChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "masterdata",
		Subsystem: "assignment",
		Name:      "changes_total",
		Help:      "Total number of work center to cost center links assigned or cleared.",
	}, []string{"change"})
)

func recordRejection(entity, kind string) {
	writeRejections.WithLabelValues(entity, kind).Inc()
}

func recordAssignmentChanges(assigned, cleared int) {
	if assigned > 0 {
		assignmentChanges.WithLabelValues("assigned").Add(float64(assigned))
	}
	if cleared > 0 {
		assignmentChanges.WithLabelValues("cleared").Add(float64(cleared))
	}
}
