package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/auth"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

type authFixture struct {
	tokens auth.TokenService
	repo   *fakeUserRepo
	router *gin.Engine
}

func newAuthFixture(t *testing.T, roles ...string) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewJWTService("test-secret", time.Hour)
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	mw := NewAuthMiddleware(tokens, repo)

	r := gin.New()
	group := r.Group("/protected", mw.Authenticate())
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("", func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"username": principal.Username})
	})

	return &authFixture{tokens: tokens, repo: repo, router: r}
}

func (fx *authFixture) addUser(t *testing.T, role string, active bool) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	fx.repo.users[id] = &model.User{
		Base:     model.Base{ID: id},
		Username: "tester",
		Role:     role,
		IsActive: active,
	}
	token, err := fx.tokens.Generate(id, "tester", role)
	require.NoError(t, err)
	return id, token
}

func (fx *authFixture) request(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	fx := newAuthFixture(t)

	w := fx.request("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization required")
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	fx := newAuthFixture(t)

	w := fx.request("garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	fx := newAuthFixture(t)
	_, token := fx.addUser(t, model.RoleUser, false)

	w := fx.request(token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "account is deactivated")
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	fx := newAuthFixture(t)
	_, token := fx.addUser(t, model.RoleUser, true)

	w := fx.request(token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tester")
}

func TestRequireRolesDistinguishes401From403(t *testing.T) {
	fx := newAuthFixture(t, model.RoleAdmin)

	// No credentials at all: 401.
	w := fx.request("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Authenticated but under-privileged: 403.
	_, userToken := fx.addUser(t, model.RoleUser, true)
	w = fx.request(userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient permissions")

	// Authenticated with the right role: 200.
	_, adminToken := fx.addUser(t, model.RoleAdmin, true)
	w = fx.request(adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAllowsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens := auth.NewJWTService("test-secret", time.Hour)
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	mw := NewAuthMiddleware(tokens, repo)

	r := gin.New()
	r.GET("/open", mw.Optional(), func(c *gin.Context) {
		_, authed := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})

	// Anonymous passes.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// A bad token is still rejected.
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
