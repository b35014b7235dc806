package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishFansOutInRegistrationOrder(t *testing.T) {
	bus := NewBus(nil)

	var mu sync.Mutex
	var order []int

	bus.Register(SubscriberFunc(func(_ context.Context, _ Event) error {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
		return nil
	}))
	bus.Register(SubscriberFunc(func(_ context.Context, _ Event) error {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		return nil
	}))

	bus.Publish(context.Background(), Event{Type: ExecutionStart})

	assert.Equal(t, []int{1, 2}, order)
}

func TestBus_FailingSubscriberDoesNotStopFanOut(t *testing.T) {
	bus := NewBus(nil)

	var secondCalled bool
	bus.Register(SubscriberFunc(func(_ context.Context, _ Event) error {
		return errors.New("boom")
	}))
	bus.Register(SubscriberFunc(func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	}))

	bus.Publish(context.Background(), Event{Type: ExecutionComplete})
	assert.True(t, secondCalled)
}

func TestSubscription_CloseUnregisters(t *testing.T) {
	bus := NewBus(nil)

	var called bool
	sub := bus.Register(SubscriberFunc(func(_ context.Context, _ Event) error {
		called = true
		return nil
	}))

	require := assert.New(t)
	require.NoError(sub.Close())

	bus.Publish(context.Background(), Event{Type: ExecutionStart})
	require.False(called)
	require.Equal(0, bus.Len())
}
