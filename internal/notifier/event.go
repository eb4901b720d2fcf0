// Package notifier fans cart mutations out over two channels: an in-process
// bus for components living in the same instance (WebSocket hub, reconciler)
// and a Redis pub/sub channel for sibling instances. Both channels carry the
// same event and both are safe to handle redundantly: the correct reaction
// is always reload-from-store and re-push.
package notifier

import "github.com/greenbean/storefront-backend/internal/app/model"

type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
	ActionClear  Action = "clear"
	ActionCoupon Action = "coupon"
)

// Event describes one cart mutation. Origin identifies the instance that
// performed the write so subscribers can drop their own publications, and
// SourceTab identifies the browser tab (when known) so the hub does not
// echo a mutation back to the tab that made it.
type Event struct {
	SessionID string          `json:"session_id"`
	Action    Action          `json:"action"`
	Items     model.Cart      `json:"items"`
	Product   *model.LineItem `json:"product,omitempty"`
	Origin    string          `json:"origin"`
	SourceTab string          `json:"source_tab,omitempty"`
}
