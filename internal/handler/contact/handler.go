package contact

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/service/contact"
	"github.com/negatcare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *contact.Service
}

func NewHandler(service *contact.Service) *Handler {
	return &Handler{service: service}
}

// Create is the public contact form: no login required.
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	msg, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, msg)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid contact ID")
		return
	}

	msg, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, msg)
}

func (h *Handler) List(c *gin.Context) {
	params := httputil.ParsePageParams(c)
	filter := &model.ContactFilter{
		Status: model.ContactStatus(c.Query("status")),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}
	if v := c.Query("isRead"); v != "" {
		isRead := v == "true"
		filter.IsRead = &isRead
	}

	messages, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.List(c, messages, params, total)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid contact ID")
		return
	}

	var req model.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	msg, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, msg)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid contact ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"message": "contact deleted"})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware, rl *middleware.RateLimiter) {
	r.POST("/contacts", rl.RateLimit(), h.Create)

	contacts := r.Group("/contacts", authMW.Authenticate(), middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor))
	{
		contacts.GET("", h.List)
		contacts.GET("/:id", h.Get)
		contacts.PUT("/:id", h.Update)
		contacts.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin), h.Delete)
	}
}
