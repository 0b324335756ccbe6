package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"efficiensa/internal/models"
)

const (
	claimsKey   = "auth.claims"
	terminalKey = "auth.terminal"

	// TerminalHeader names the terminal for requests without a token
	TerminalHeader = "X-Terminal-Code"
	// DefaultTerminal is used when a request names no terminal
	DefaultTerminal = "default"
)

// Middleware attaches the caller's identity. Requests without a token are
// public; a token that is present but invalid is rejected.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return a.identify(true)
}

// LenientMiddleware treats an invalid or revoked token as no token, so a
// stale client can still reach the login route.
func (a *Authenticator) LenientMiddleware() gin.HandlerFunc {
	return a.identify(false)
}

func (a *Authenticator) identify(strict bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		terminal := strings.ToUpper(strings.TrimSpace(c.GetHeader(TerminalHeader)))

		header := c.GetHeader("Authorization")
		if header != "" {
			tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims, err := a.Parse(tokenString)
			switch {
			case err == nil:
				c.Set(claimsKey, claims)
				if claims.Terminal != "" {
					terminal = claims.Terminal
				}
			case strict:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				c.Abort()
				return
			}
		}

		if terminal == "" {
			terminal = DefaultTerminal
		}
		c.Set(terminalKey, terminal)
		c.Next()
	}
}

// RequireAdmin rejects callers that have not logged in with the admin PIN
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !UserFrom(c).IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the token claims of the request, or nil
func ClaimsFrom(c *gin.Context) *Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// UserFrom returns the user making the request
func UserFrom(c *gin.Context) models.User {
	return UserOf(ClaimsFrom(c))
}

// TerminalFrom returns the terminal making the request
func TerminalFrom(c *gin.Context) string {
	if v := c.GetString(terminalKey); v != "" {
		return v
	}
	return DefaultTerminal
}
