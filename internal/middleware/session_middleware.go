package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/internal/errors"
	"github.com/greenbean/storefront-backend/pkg/util"
)

// Context keys for session information
const (
	SessionIDKey = "session_id"
	TabIDKey     = "tab_id"
)

// TabIDHeader identifies the browser tab issuing the request, so cart
// change notifications can skip the tab that caused them.
const TabIDHeader = "X-Tab-ID"

// SessionMiddleware attaches a guest session to every request. Carts have
// no accounts behind them; the signed cookie is the whole identity. A
// missing or unverifiable cookie gets a fresh session rather than a 401.
type SessionMiddleware struct {
	cfg config.SessionConfig
}

func NewSessionMiddleware(cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{cfg: cfg}
}

func (m *SessionMiddleware) EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		sessionID := ""
		if cookie, err := c.Cookie(m.cfg.CookieName); err == nil && cookie != "" {
			claims, err := util.ValidateSessionToken(cookie, m.cfg.Secret)
			if err != nil {
				log.Debug("Session cookie rejected, issuing a new session", map[string]interface{}{
					"error": err.Error(),
				})
			} else {
				sessionID = claims.SessionID
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			token, err := util.GenerateSessionToken(sessionID, m.cfg.Secret, m.cfg.TTL)
			if err != nil {
				log.Error("Failed to sign session token", err, nil)
				errors.InternalError(c, "")
				c.Abort()
				return
			}
			c.SetCookie(m.cfg.CookieName, token, int(m.cfg.TTL.Seconds()), "/", "", false, true)

			log.Debug("Issued new guest session", map[string]interface{}{
				"session_id": sessionID,
			})
		}

		c.Set(SessionIDKey, sessionID)
		if tabID := c.GetHeader(TabIDHeader); tabID != "" {
			c.Set(TabIDKey, tabID)
		}

		c.Next()
	}
}

// GetSessionID extracts the session id from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}

// GetTabID extracts the requesting tab's id from context, if the client
// sent one.
func GetTabID(c *gin.Context) string {
	tabID, exists := c.Get(TabIDKey)
	if !exists {
		return ""
	}
	return tabID.(string)
}
