package booking

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/service/booking"
	"github.com/negatcare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

// Create is the public booking form: no login required.
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, b)
}

// Get serves two lookups through one route: a confirmation code
// (prefix "NAC", public) or a booking uuid (staff only).
func (h *Handler) Get(c *gin.Context) {
	param := c.Param("id")

	if strings.HasPrefix(strings.ToUpper(param), model.ConfirmationCodePrefix) {
		b, err := h.service.GetByConfirmationCode(c.Request.Context(), param)
		if err != nil {
			httputil.Error(c, err)
			return
		}
		httputil.OK(c, b)
		return
	}

	if !h.requireStaff(c) {
		return
	}

	id, err := uuid.Parse(param)
	if err != nil {
		httputil.BadRequest(c, "invalid booking ID")
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, b)
}

func (h *Handler) List(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}

	params := httputil.ParsePageParams(c)
	filter := &model.BookingFilter{
		Status: model.BookingStatus(c.Query("status")),
		Search: c.Query("search"),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.List(c, bookings, params, total)
}

func (h *Handler) Update(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid booking ID")
		return
	}

	var req model.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, b)
}

// Delete soft-cancels the booking.
func (h *Handler) Delete(c *gin.Context) {
	if !h.requireStaff(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid booking ID")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, b)
}

// requireStaff enforces admin/doctor on the gated booking verbs. The
// route group only carries optional auth because Create and the code
// lookup are public.
func (h *Handler) requireStaff(c *gin.Context) bool {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return false
	}
	if !principal.HasRole(model.RoleAdmin, model.RoleDoctor) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return false
	}
	return true
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware, rl *middleware.RateLimiter) {
	bookings := r.Group("/bookings", authMW.Optional())
	{
		bookings.POST("", rl.RateLimit(), h.Create)
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id", h.Update)
		bookings.DELETE("/:id", h.Delete)
	}
}
