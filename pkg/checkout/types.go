package checkout

import "github.com/greenbean/storefront-backend/internal/app/model"

// SyncRequest is the cart handoff payload. The field name matches the
// gateway's contract.
type SyncRequest struct {
	CartItems []model.LineItem `json:"cart_items"`
}

// SyncResponse is the gateway's answer. Success false means the handoff
// was rejected and the client must not navigate.
type SyncResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
