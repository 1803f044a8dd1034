package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/service/patient"
	"github.com/negatcare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, p)
}

// Get resolves either the generated uuid or the clinic's patientId.
func (h *Handler) Get(c *gin.Context) {
	param := c.Param("id")

	if id, err := uuid.Parse(param); err == nil {
		p, err := h.service.Get(c.Request.Context(), id)
		if err != nil {
			httputil.Error(c, err)
			return
		}
		httputil.OK(c, p)
		return
	}

	p, err := h.service.GetByPatientID(c.Request.Context(), param)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, p)
}

func (h *Handler) List(c *gin.Context) {
	params := httputil.ParsePageParams(c)
	filter := &model.PatientFilter{
		Search: c.Query("search"),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}

	patients, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.List(c, patients, params, total)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient ID")
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid patient ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"message": "patient deleted"})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	patients := r.Group("/patients", authMW.Authenticate(), middleware.RequireRoles(model.StaffRoles...))
	{
		patients.POST("", h.Create)
		patients.GET("", h.List)
		patients.GET("/:id", h.Get)
		patients.PUT("/:id", h.Update)
		patients.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin), h.Delete)
	}
}
