// Package auth adapts an externally issued bearer token into the identity
// context the rest of the service consumes: a user id and an admin flag.
// Token issuance lives elsewhere; this middleware only verifies and unpacks.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID  = "auth.userID"
	ctxIsAdmin = "auth.isAdmin"
)

// Claims is the token payload: RegisteredClaims.Subject carries the user id.
type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Middleware verifies the Authorization bearer token against the shared HMAC
// secret and attaches the caller's identity to the request context.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"statusCode": http.StatusUnauthorized, "message": "missing bearer token", "data": nil})
			return
		}
		var claims Claims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"statusCode": http.StatusUnauthorized, "message": "invalid token", "data": nil})
			return
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxIsAdmin, claims.Admin)
		c.Next()
	}
}

// RequireAdmin gates admin routes; it must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"statusCode": http.StatusForbidden, "message": "admin access required", "data": nil})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id, empty if unauthenticated.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// IsAdmin reports whether the caller carries the admin claim.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ctxIsAdmin)
}

// Sign issues a token for the given identity. Used by tests and local
// tooling; production tokens come from the identity provider.
func Sign(secret []byte, userID string, admin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
