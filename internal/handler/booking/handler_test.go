package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	bookingservice "github.com/negatcare/clinic-api/internal/service/booking"
	"github.com/negatcare/clinic-api/pkg/auth"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByConfirmationCode(_ context.Context, code string) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.ConfirmationCode == code {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookingRepo) Update(_ context.Context, b *model.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) List(_ context.Context, _ *model.BookingFilter) ([]*model.Booking, int, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (f *fakeBookingRepo) HasActiveSlot(context.Context, string, string, string, string, *uuid.UUID) (bool, error) {
	return false, nil
}

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

type fixture struct {
	router *gin.Engine
	tokens auth.TokenService
	users  *fakeUserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := bookingservice.NewService(&fakeBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}, nil)
	tokens := auth.NewJWTService("test-secret", time.Hour)
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	authMW := middleware.NewAuthMiddleware(tokens, users)
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{Rate: rate.Inf, Burst: 1})

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), authMW, rl)
	return &fixture{router: r, tokens: tokens, users: users}
}

func (fx *fixture) tokenFor(t *testing.T, role string) string {
	t.Helper()
	id := uuid.New()
	fx.users.users[id] = &model.User{Base: model.Base{ID: id}, Username: "staff", Role: role, IsActive: true}
	token, err := fx.tokens.Generate(id, "staff", role)
	require.NoError(t, err)
	return token
}

func (fx *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

const createBody = `{
	"fullName": "Selam Tadesse",
	"email": "selam@example.com",
	"phoneNumber": "0911123456",
	"preferredDate": "2099-07-15",
	"preferredTime": "Morning (8AM-12PM)"
}`

func TestPublicCreateAndCodeLookup(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/api/bookings", "", createBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.ConfirmationCode, "NAC"))

	// Anonymous lookup by confirmation code, case-insensitive.
	w = fx.do(http.MethodGet, "/api/bookings/"+strings.ToLower(created.ConfirmationCode), "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = fx.do(http.MethodGet, "/api/bookings/NACUNKNOWN1", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidatesBody(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/api/bookings", "", `{"fullName": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := strings.Replace(createBody, "Morning (8AM-12PM)", "Midnight", 1)
	w = fx.do(http.MethodPost, "/api/bookings", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRequiresStaff(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodGet, "/api/bookings", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = fx.do(http.MethodGet, "/api/bookings", fx.tokenFor(t, model.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = fx.do(http.MethodGet, "/api/bookings", fx.tokenFor(t, model.RoleDoctor), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUUIDLookupRequiresStaff(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/api/bookings", "", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = fx.do(http.MethodGet, "/api/bookings/"+created.ID.String(), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := fx.tokenFor(t, model.RoleAdmin)
	w = fx.do(http.MethodGet, "/api/bookings/"+created.ID.String(), token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = fx.do(http.MethodGet, "/api/bookings/not-a-uuid", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSoftCancels(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/api/bookings", "", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	token := fx.tokenFor(t, model.RoleAdmin)
	w = fx.do(http.MethodDelete, "/api/bookings/"+created.ID.String(), token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var cancelled model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
}
