package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/auth"
)

const principalKey = "principal"

type AuthMiddleware struct {
	tokens auth.TokenService
	users  repository.UserRepository
	// caches userID -> isActive so each request doesn't hit the DB
	cache *cache.Cache
}

func NewAuthMiddleware(tokens auth.TokenService, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Authenticate verifies the bearer token and attaches the principal to
// the request context. Missing or bad credentials are a 401.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := m.resolve(c)
		if !ok {
			return
		}
		if principal == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// Optional attaches a principal when a valid token is present but lets
// anonymous requests through. Invalid tokens are still rejected.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := m.resolve(c)
		if !ok {
			return
		}
		if principal != nil {
			c.Set(principalKey, principal)
		}
		c.Next()
	}
}

// RequireRoles rejects authenticated principals whose role is not in
// the allow list. Distinct from a 401: the caller is known, just not
// privileged.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if !principal.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, if any.
func GetPrincipal(c *gin.Context) (*model.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*model.Principal)
	return principal, ok
}

// resolve parses the Authorization header. It returns (nil, true) for
// an absent header, (principal, true) for a valid token, and aborts
// with (nil, false) for a bad one.
func (m *AuthMiddleware) resolve(c *gin.Context) (*model.Principal, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, true
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
		return nil, false
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return nil, false
	}

	if !m.isActive(c, claims) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account is deactivated"})
		return nil, false
	}

	return &model.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, true
}

func (m *AuthMiddleware) isActive(c *gin.Context, claims *auth.Claims) bool {
	key := claims.UserID.String()
	if v, found := m.cache.Get(key); found {
		return v.(bool)
	}

	user, err := m.users.Get(c.Request.Context(), claims.UserID)
	active := err == nil && user.IsActive
	m.cache.SetDefault(key, active)
	return active
}
