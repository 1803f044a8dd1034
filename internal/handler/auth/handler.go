package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/service/auth"
	"github.com/negatcare/clinic-api/pkg/httputil"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, user.Summary())
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, resp)
}

func (h *Handler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, user.Summary())
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", authMW.Authenticate(), h.Me)
	}
}
