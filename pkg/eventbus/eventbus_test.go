package eventbus

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/pkg/logging"
)

type plantCreated struct {
	ID int64
}

type plantDeleted struct {
	ID int64
}

func bufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublish_DispatchesByType(t *testing.T) {
	bus := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))

	var created, deleted []int64
	bus.Subscribe(func(e *plantCreated) { created = append(created, e.ID) })
	bus.Subscribe(func(e *plantDeleted) { deleted = append(deleted, e.ID) })

	bus.Publish(&plantCreated{ID: 1})
	bus.Publish(&plantDeleted{ID: 2})
	bus.Publish(&plantCreated{ID: 3})

	require.Equal(t, []int64{1, 3}, created)
	require.Equal(t, []int64{2}, deleted)
}

func TestPublish_WarnsWithoutSubscribers(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *plantDeleted) { t.Error("should not be called") })

	bus.Publish(&plantCreated{ID: 1})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublish_RecoversFromPanics(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	bus := NewEventPublisher(log)

	called := false
	bus.Subscribe(func(e *plantCreated) { panic("boom") })
	bus.Subscribe(func(e *plantCreated) { called = true })

	require.NotPanics(t, func() { bus.Publish(&plantCreated{ID: 1}) })
	require.True(t, called)
	require.Contains(t, buf.String(), "panicked")
	require.NotContains(t, buf.String(), "no matching subscribers")
}

func TestPublish_AllHandlersPanicCountsAsUnhandled(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *plantCreated) { panic("always") })

	bus.Publish(&plantCreated{ID: 1})

	require.Contains(t, buf.String(), "no matching subscribers")
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(e *plantCreated) {}, []any{&plantCreated{}}))
	require.False(t, MatchSignature(func(e *plantCreated) {}, []any{&plantDeleted{}}))
	require.False(t, MatchSignature(func(e *plantCreated) {}, []any{}))
	require.False(t, MatchSignature(func(e *plantCreated) {}, []any{&plantCreated{}, &plantCreated{}}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	require.True(t, MatchSignature(func(e *plantCreated) {}, []any{nil}))
	require.False(t, MatchSignature(func(n int) {}, []any{nil}))
	require.False(t, MatchSignature("not a func", nil))
}

func TestPublishE(t *testing.T) {
	t.Run("no subscribers", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		require.ErrorIs(t, bus.PublishE(&plantCreated{}), ErrNoSubscribers)
	})

	t.Run("joins handler errors", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		err1, err2 := errors.New("err1"), errors.New("err2")
		bus.Subscribe(func(e *plantCreated) error { return err1 })
		bus.Subscribe(func(e *plantCreated) error { return err2 })

		err := bus.PublishE(&plantCreated{})
		require.ErrorIs(t, err, err1)
		require.ErrorIs(t, err, err2)
	})

	t.Run("panic surfaces as error", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		called := false
		bus.Subscribe(func(e *plantCreated) error { panic("boom") })
		bus.Subscribe(func(e *plantCreated) error { called = true; return nil })

		require.Error(t, bus.PublishE(&plantCreated{}))
		require.True(t, called)
	})

	t.Run("invalid return", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		bus.Subscribe(func(e *plantCreated) int { return 1 })
		require.ErrorIs(t, bus.PublishE(&plantCreated{}), ErrInvalidHandlerReturn)
	})
}

func TestSubscribeUnsubscribeClear(t *testing.T) {
	bus := NewEventPublisher(nil)
	h1 := func(e *plantCreated) {}
	h2 := func(e *plantDeleted) {}
	bus.Subscribe(h1)
	bus.Subscribe(h2)
	require.Equal(t, 2, bus.SubscribersCount())

	bus.Unsubscribe(h1)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())

	require.Panics(t, func() { bus.Subscribe(42) })
}

func TestPublish_Concurrent(t *testing.T) {
	bus := NewEventPublisher(nil)
	var mu sync.Mutex
	count := 0
	bus.Subscribe(func(e *plantCreated) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			bus.Publish(&plantCreated{ID: id})
		}(int64(i))
	}
	wg.Wait()
	require.Equal(t, 20, count)
}
