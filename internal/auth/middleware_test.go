package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// stubSessions is a SessionReader over a fixed map.
type stubSessions map[string]int64

func (s stubSessions) GetUserID(_ context.Context, id string) (int64, bool) {
	userID, ok := s[id]
	return userID, ok
}

func newGatedRouter(sessions SessionReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireSession(sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserIDFromContext(c)})
	})
	return r
}

func getProtected(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSessionMissingCookie(t *testing.T) {
	r := newGatedRouter(stubSessions{})

	if w := getProtected(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no cookie status = %d, want 401", w.Code)
	}
}

func TestRequireSessionStaleSession(t *testing.T) {
	// The session vanished (expired, logged out elsewhere) after the client
	// got its cookie: the gate must reject, not pass a zero user through.
	r := newGatedRouter(stubSessions{})

	if w := getProtected(r, "expired-session"); w.Code != http.StatusUnauthorized {
		t.Errorf("stale session status = %d, want 401", w.Code)
	}
}

func TestRequireSessionValid(t *testing.T) {
	r := newGatedRouter(stubSessions{"good-session": 7})

	w := getProtected(r, "good-session")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.UserID != 7 {
		t.Errorf("user ID in context = %d, want 7", body.UserID)
	}
}
