package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/models"
)

func TestLogin(t *testing.T) {
	a := New("secret", "0000", time.Hour)

	_, _, err := a.Login("1234", "KDS-01")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	token, claims, err := a.Login(" 0000 ", "KDS-01")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	parsed, err := a.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "KDS-01", parsed.Terminal)
	assert.Equal(t, models.AdminUser, UserOf(parsed))
}

func TestParse_RejectsForeignAndExpiredTokens(t *testing.T) {
	a := New("secret", "0000", time.Hour)
	other := New("other-secret", "0000", time.Hour)

	token, _, err := other.Login("0000", "")
	require.NoError(t, err)
	_, err = a.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := a.Login("0000", "")
	require.NoError(t, err)
	_, err = a.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	a := New("secret", "0000", time.Hour)
	token, claims, err := a.Login("0000", "")
	require.NoError(t, err)

	a.Revoke(claims)
	_, err = a.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserOf_DefaultsToPublic(t *testing.T) {
	assert.Equal(t, models.PublicUser, UserOf(nil))
	assert.False(t, UserOf(nil).IsAdmin())
}

func setupRouter(a *Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(a.Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": UserFrom(c).Role, "terminal": TerminalFrom(c)})
	})
	r.PUT("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	a := New("secret", "0000", time.Hour)
	r := setupRouter(a)

	// no token is public
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(TerminalHeader, "kds-02")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"public","terminal":"KDS-02"}`, w.Body.String())

	// public users cannot reach admin routes
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// bad token is rejected outright
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := a.Login("0000", "KDS-01")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("PUT", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"role":"admin","terminal":"KDS-01"}`, w.Body.String())
}
