package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kassa/internal/logger"
	"kassa/internal/processing"
	"kassa/pkg/errors"
	"kassa/pkg/logging"
	"kassa/pkg/metrics"
)

type Handler struct {
	processor processing.Service
	logger    logger.Logger
}

func NewHandler(processor processing.Service, log logger.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/webhook/inbound", h.HandleInbound)
	}
}

// HandleInbound godoc
// @Summary      Receive an inbound email
// @Description  Accepts a provider inbound-email webhook and runs the receipt pipeline
// @Tags         webhook
// @Accept       json
// @Produce      json
// @Param        email  body      InboundEmail  true  "Inbound email payload"
// @Success      200    {object}  processing.Result
// @Failure      400    {object}  errors.ErrorResponse
// @Failure      500    {object}  errors.ErrorResponse
// @Router       /webhook/inbound [post]
func (h *Handler) HandleInbound(c *gin.Context) {
	ctx := c.Request.Context()

	var payload InboundEmail
	if err := c.ShouldBindJSON(&payload); err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("bad_request").Inc()
		h.logger.WarnwCtx(ctx, "invalid webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	if payload.MessageID == "" {
		metrics.WebhookRequestsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.ErrValidation.WithDetail("message", "MessageID is required")))
		return
	}

	ctx = logging.WithMessageID(ctx, payload.MessageID)

	msg, err := payload.ToMessage()
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("bad_request").Inc()
		h.logger.WarnwCtx(ctx, "failed to decode webhook payload",
			"message_id", payload.MessageID,
			"error", err,
		)
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	result := h.processor.Process(ctx, msg)
	if !result.Success {
		metrics.WebhookRequestsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	metrics.WebhookRequestsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, result)
}
