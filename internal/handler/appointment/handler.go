package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/service/appointment"
	"github.com/negatcare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	apt, err := h.service.Create(c.Request.Context(), principal, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, apt)
}

func (h *Handler) Get(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Get(c.Request.Context(), principal, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, apt)
}

func (h *Handler) List(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	params := httputil.ParsePageParams(c)

	filter := &model.AppointmentFilter{
		Status:   model.AppointmentStatus(c.Query("status")),
		Search:   c.Query("search"),
		Upcoming: c.Query("upcoming") == "true",
		Limit:    params.Limit,
		Offset:   params.Offset(),
	}
	if c.Query("mine") == "true" {
		filter.CreatedBy = principal.UserID.String()
	}

	appointments, total, err := h.service.List(c.Request.Context(), principal, filter)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.List(c, appointments, params, total)
}

func (h *Handler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	apt, err := h.service.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, apt)
}

// Delete soft-cancels: the record stays, status flips to Cancelled.
func (h *Handler) Delete(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Cancel(c.Request.Context(), principal, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, apt)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	appointments := r.Group("/appointments", authMW.Authenticate())
	{
		appointments.POST("", h.Create)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.PUT("/:id", h.Update)
		appointments.DELETE("/:id", h.Delete)
	}
}
