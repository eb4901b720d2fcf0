package notifier

import (
	"testing"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishFansOutInOrder(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(func(ev Event) {
		got = append(got, "first:"+string(ev.Action))
	})
	bus.Subscribe(func(ev Event) {
		got = append(got, "second:"+string(ev.Action))
	})

	bus.Publish(Event{SessionID: "sess-1", Action: ActionAdd})

	assert.Equal(t, []string{"first:add", "second:add"}, got)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()

	assert.NotPanics(t, func() {
		bus.Publish(Event{SessionID: "sess-1", Action: ActionClear})
	})
}

func TestBus_EventCarriesPayload(t *testing.T) {
	bus := NewBus()

	var got Event
	bus.Subscribe(func(ev Event) { got = ev })

	product := model.LineItem{ID: "snake-plant", Name: "Snake Plant", Price: 19.99, Quantity: 1}
	bus.Publish(Event{
		SessionID: "sess-1",
		Action:    ActionAdd,
		Items:     model.Cart{product},
		Product:   &product,
	})

	assert.Equal(t, ActionAdd, got.Action)
	require.NotNil(t, got.Product)
	assert.Equal(t, "snake-plant", got.Product.ID)
	assert.Len(t, got.Items, 1)
}

func TestShouldDeliver_DropsOwnOrigin(t *testing.T) {
	ev := Event{SessionID: "sess-1", Action: ActionAdd, Origin: "instance-a"}

	assert.False(t, shouldDeliver(ev, "instance-a"))
	assert.True(t, shouldDeliver(ev, "instance-b"))
}

func TestNotifier_PublishWithoutRedisStillFansOutLocally(t *testing.T) {
	bus := NewBus()
	n := NewNotifier(nil, bus)

	var got []Event
	bus.Subscribe(func(ev Event) { got = append(got, ev) })

	n.Publish(t.Context(), Event{SessionID: "sess-1", Action: ActionRemove})

	require.Len(t, got, 1)
	assert.Equal(t, ActionRemove, got[0].Action)
	assert.Equal(t, n.Origin(), got[0].Origin)
}

func TestNotifier_HandleMessageFiltersOrigin(t *testing.T) {
	bus := NewBus()
	n := NewNotifier(nil, bus)

	var got []Event
	bus.Subscribe(func(ev Event) { got = append(got, ev) })

	// Own event comes back from the channel: must be dropped.
	n.handleMessage([]byte(`{"session_id":"sess-1","action":"add","origin":"` + n.Origin() + `"}`))
	assert.Empty(t, got)

	// Foreign event: forwarded.
	n.handleMessage([]byte(`{"session_id":"sess-1","action":"add","origin":"other"}`))
	require.Len(t, got, 1)
	assert.Equal(t, "other", got[0].Origin)

	// Malformed payloads are dropped silently.
	n.handleMessage([]byte(`{"session_id":`))
	assert.Len(t, got, 1)
}
