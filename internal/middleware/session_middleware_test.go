package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenbean/storefront-backend/config"
	"github.com/greenbean/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "test-session-secret-for-middleware"

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     testSessionSecret,
		CookieName: "cart_session",
		TTL:        time.Hour,
	}
}

func setupSessionTest() (*gin.Engine, *SessionMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewSessionMiddleware(sessionTestConfig())
	return router, middleware
}

func TestSessionMiddleware_IssuesNewSession(t *testing.T) {
	router, sessionMiddleware := setupSessionTest()

	var sessionID string
	router.GET("/test", sessionMiddleware.EnsureSession(), func(c *gin.Context) {
		sessionID, _ = GetSessionID(c)
		c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, sessionID)

	// The new session rides out on a verifiable cookie.
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "cart_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := util.ValidateSessionToken(cookies[0].Value, testSessionSecret)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestSessionMiddleware_ReusesValidCookie(t *testing.T) {
	router, sessionMiddleware := setupSessionTest()

	token, err := util.GenerateSessionToken("sess-existing", testSessionSecret, time.Hour)
	require.NoError(t, err)

	var sessionID string
	router.GET("/test", sessionMiddleware.EnsureSession(), func(c *gin.Context) {
		sessionID, _ = GetSessionID(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-existing", sessionID)
	// No replacement cookie for an already valid session.
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionMiddleware_ReplacesBadCookie(t *testing.T) {
	router, sessionMiddleware := setupSessionTest()

	var sessionID string
	router.GET("/test", sessionMiddleware.EnsureSession(), func(c *gin.Context) {
		sessionID, _ = GetSessionID(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "tampered"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, sessionID)
	require.Len(t, w.Result().Cookies(), 1)
}

func TestSessionMiddleware_TabID(t *testing.T) {
	router, sessionMiddleware := setupSessionTest()

	var tabID string
	router.GET("/test", sessionMiddleware.EnsureSession(), func(c *gin.Context) {
		tabID = GetTabID(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(TabIDHeader, "tab-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "tab-42", tabID)

	// Absent header means an empty tab id, not an error.
	req = httptest.NewRequest("GET", "/test", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, tabID)
}
