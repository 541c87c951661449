package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/pkg/channels/gochannel"
	"github.com/formlane/formlane/pkg/eventbus"
	"github.com/formlane/formlane/pkg/events"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *events.FormSaved, 1)

	err := bus.Handle(events.FormSavedEvent, func(_ context.Context, event interface{}) error {
		saved, ok := event.(*events.FormSaved)
		require.True(t, ok)
		received <- saved

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	saved := events.FormSaved{
		BaseEvent: events.NewBaseEvent(events.FormSavedEvent),
		FormID:    "f1",
		ShareID:   "s1",
		Title:     "Untitled Form",
	}
	require.NoError(t, bus.Publish(ctx, "f1", saved))

	select {
	case got := <-received:
		assert.Equal(t, "s1", got.ShareID)
		assert.Equal(t, "Untitled Form", got.Title)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_UnhandledTypeIsAcked(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan struct{}, 2)

	// Only response events are handled; the form event should be dropped.
	err := bus.Handle(events.ResponseReceivedEvent, func(_ context.Context, _ interface{}) error {
		received <- struct{}{}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	require.NoError(t, bus.Publish(ctx, "f1", events.FormSaved{BaseEvent: events.NewBaseEvent(events.FormSavedEvent)}))
	require.NoError(t, bus.Publish(ctx, "s1", events.ResponseReceived{BaseEvent: events.NewBaseEvent(events.ResponseReceivedEvent)}))

	select {
	case <-received:
	case <-ctx.Done():
		t.Fatal("timed out waiting for response event")
	}

	assert.Empty(t, received)
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
