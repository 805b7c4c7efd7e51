package handlers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/masterdata/domain/events"
	"github.com/plantops/plantops/pkg/eventbus"
)

func TestChangeHandler(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	bus := eventbus.NewEventPublisher(logger)
	RegisterChangeHandlers(bus, logger)

	counter := committedChanges.WithLabelValues("plant", "created")
	before := testutil.ToFloat64(counter)

	bus.Publish(&events.EntityChanged{Entity: events.EntityPlant, Action: events.ActionCreated, ID: 7, At: time.Now()})
	require.InDelta(t, before+1, testutil.ToFloat64(counter), 0.0001)
	require.Equal(t, "master data changed", hook.LastEntry().Message)
	require.Equal(t, int64(7), hook.LastEntry().Data["id"])

	bus.Publish(&events.AssignmentsSynced{CostCenterID: 3, Assigned: []int64{1}, Cleared: []int64{2}})
	entry := hook.LastEntry()
	require.Equal(t, logrus.InfoLevel, entry.Level)
	require.Equal(t, int64(3), entry.Data["cost_center_id"])
	require.Equal(t, []int64{2}, entry.Data["cleared"])
}
