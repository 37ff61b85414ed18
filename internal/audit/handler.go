package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kassa/internal/logger"
	"kassa/pkg/errors"
)

type Handler struct {
	service Service
	logger  logger.Logger
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/audit/logs", h.GetLogs)
	}
}

// GetLogs godoc
// @Summary      List webhook delivery logs
// @Description  Get webhook delivery outcomes, newest first
// @Tags         audit
// @Accept       json
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200  {array}   WebhookLog
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /audit/logs [get]
func (h *Handler) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
		c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
		return
	}
	if entries == nil {
		entries = []WebhookLog{}
	}
	c.JSON(http.StatusOK, entries)
}
