package notifier

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/greenbean/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const eventChannel = "cart:events"

// Notifier bridges the in-process bus with the cross-instance Redis
// channel. Every locally published event is relayed to Redis; events
// arriving from Redis are forwarded onto the bus unless this instance
// produced them, so a writer never hears its own publish.
type Notifier struct {
	client *redis.Client
	bus    *Bus
	origin string
}

func NewNotifier(client *redis.Client, bus *Bus) *Notifier {
	return &Notifier{
		client: client,
		bus:    bus,
		origin: uuid.NewString(),
	}
}

// Origin returns this instance's identity, stamped onto outgoing events.
func (n *Notifier) Origin() string {
	return n.origin
}

// Publish fans the event out locally and relays it to sibling instances.
// The local fan-out happens first and synchronously; the Redis publish is
// best-effort; a delivery miss is repaired by the reconciliation pass.
func (n *Notifier) Publish(ctx context.Context, ev Event) {
	ev.Origin = n.origin
	n.bus.Publish(ev)

	if n.client == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Failed to serialize cart event", err, map[string]interface{}{
			"session_id": ev.SessionID,
			"action":     ev.Action,
		})
		return
	}
	if err := n.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		logger.Error("Failed to publish cart event", err, map[string]interface{}{
			"session_id": ev.SessionID,
			"action":     ev.Action,
		})
	}
}

// Listen consumes the Redis channel until the context is cancelled,
// forwarding foreign events onto the local bus. Intended to run in its
// own goroutine.
func (n *Notifier) Listen(ctx context.Context) {
	if n.client == nil {
		return
	}

	sub := n.client.Subscribe(ctx, eventChannel)
	defer sub.Close()

	logger.Info("Listening for cart events", map[string]interface{}{
		"channel": eventChannel,
		"origin":  n.origin,
	})

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			n.handleMessage([]byte(msg.Payload))
		}
	}
}

func (n *Notifier) handleMessage(payload []byte) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		logger.Warn("Dropping malformed cart event", map[string]interface{}{
			"payload_size": len(payload),
		})
		return
	}
	if !shouldDeliver(ev, n.origin) {
		return
	}
	logger.Debug("Received cart event from sibling instance", map[string]interface{}{
		"session_id": ev.SessionID,
		"action":     ev.Action,
		"origin":     ev.Origin,
	})
	n.bus.Publish(ev)
}

// shouldDeliver drops events this instance published itself; its bus
// subscribers already saw them synchronously at mutation time.
func shouldDeliver(ev Event, origin string) bool {
	return ev.Origin != origin
}
