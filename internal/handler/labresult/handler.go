package labresult

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/service/labresult"
	"github.com/negatcare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *labresult.Service
}

func NewHandler(service *labresult.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req model.CreateLabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), principal, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, result)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid lab result ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, result)
}

func (h *Handler) List(c *gin.Context) {
	params := httputil.ParsePageParams(c)
	filter := &model.LabResultFilter{
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

	results, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.List(c, results, params, total)
}

func (h *Handler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid lab result ID")
		return
	}

	var req model.UpdateLabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, result)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid lab result ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"message": "lab result deleted"})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	results := r.Group("/lab-results", authMW.Authenticate(), middleware.RequireRoles(model.StaffRoles...))
	{
		results.POST("", h.Create)
		results.GET("", h.List)
		results.GET("/:id", h.Get)
		results.PUT("/:id", h.Update)
		results.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.Delete)
	}
}
