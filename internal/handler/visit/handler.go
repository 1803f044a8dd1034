package visit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/service/visit"
	"github.com/negatcare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *visit.Service
}

func NewHandler(service *visit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req model.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	v, err := h.service.Create(c.Request.Context(), principal, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, v)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid visit ID")
		return
	}

	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, v)
}

func (h *Handler) List(c *gin.Context) {
	params := httputil.ParsePageParams(c)
	filter := &model.VisitFilter{
		Search: c.Query("search"),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}
	if raw := c.Query("patientId"); raw != "" {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			httputil.BadRequest(c, "invalid patient ID")
			return
		}
		filter.PatientID = &patientID
	}

	visits, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.List(c, visits, params, total)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid visit ID")
		return
	}

	var req model.UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	v, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, v)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid visit ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"message": "visit deleted"})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	visits := r.Group("/visits", authMW.Authenticate(), middleware.RequireRoles(model.StaffRoles...))
	{
		visits.POST("", h.Create)
		visits.GET("", h.List)
		visits.GET("/:id", h.Get)
		visits.PUT("/:id", h.Update)
		visits.DELETE("/:id", h.Delete)
	}
}
