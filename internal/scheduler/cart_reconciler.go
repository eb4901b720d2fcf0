package scheduler

import (
	"context"

	"github.com/greenbean/storefront-backend/internal/app/service"
	"github.com/greenbean/storefront-backend/internal/notifier"
	"github.com/greenbean/storefront-backend/internal/websocket"
	"github.com/greenbean/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartReconciler is the polling fallback behind the push channel. Pushes
// can be missed (full buffers, dropped Redis messages), so connected
// sessions periodically get their durable cart re-sent. Reapplying the
// same state is harmless, which is what makes the pass safe to repeat.
type CartReconciler struct {
	cron        *cron.Cron
	cartService service.CartService
	hub         *websocket.Hub
	spec        string
}

func NewCartReconciler(cartService service.CartService, hub *websocket.Hub, spec string) *CartReconciler {
	return &CartReconciler{
		cron:        cron.New(),
		cartService: cartService,
		hub:         hub,
		spec:        spec,
	}
}

// Start schedules the reconciliation pass.
func (s *CartReconciler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		logger.Error("Failed to add cron job for cart reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart reconciler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *CartReconciler) runOnce() {
	sessions := s.hub.ConnectedSessions()
	if len(sessions) == 0 {
		return
	}

	logger.Debug("Starting cart reconciliation pass", map[string]interface{}{
		"sessions": len(sessions),
	})

	ctx := context.Background()
	for _, sessionID := range sessions {
		state, err := s.cartService.GetCart(ctx, sessionID)
		if err != nil {
			logger.Error("Failed to load cart during reconciliation", err, map[string]interface{}{
				"session_id": sessionID,
			})
			continue
		}

		// No source tab: every open tab gets the authoritative state.
		s.hub.PushCartEvent(notifier.Event{
			SessionID: sessionID,
			Action:    notifier.ActionUpdate,
			Items:     state.Items,
		})
	}
}

// Stop halts the scheduler.
func (s *CartReconciler) Stop() {
	logger.Info("Stopping cart reconciler...", nil)
	s.cron.Stop()
	logger.Info("Cart reconciler stopped", nil)
}
