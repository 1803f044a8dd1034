package httputil

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/negatcare/clinic-api/pkg/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is the metadata block returned with every list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListResponse is the envelope for all list endpoints.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// PageParams holds the parsed page/limit query parameters.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePageParams reads ?page= and ?limit=, clamping to sane bounds.
func ParsePageParams(c *gin.Context) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageParams{Page: page, Limit: limit}
}

// OK writes a 200 with the given body.
func OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Created writes a 201 with the given body.
func Created(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}

// List writes the standard paginated envelope.
func List(c *gin.Context, items interface{}, params PageParams, total int) {
	pages := 0
	if total > 0 {
		pages = (total + params.Limit - 1) / params.Limit
	}
	c.JSON(http.StatusOK, ListResponse{
		Items: items,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
			Pages: pages,
		},
	})
}

// Error writes the {"error": message} body with the status derived from
// the error's kind. Unclassified errors become opaque 500s and are
// logged server-side.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Kind == apperror.KindInternal {
			log.Error().Err(appErr).Str("path", c.FullPath()).Msg("internal error")
		}
		c.AbortWithStatusJSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
