package receipt

import (
	"net/http"
	"strconv"
	"time"

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
		receipts := v1.Group("/receipts")
		{
			receipts.GET("", h.ListReceipts)
			receipts.GET("/:id", h.GetReceipt)
			receipts.DELETE("/:id", h.DeleteReceipt)
		}
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
}

// ListReceipts godoc
// @Summary      List receipts
// @Description  List receipts, newest first, optionally filtered by category and date range
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Param        from      query     string  false  "Start date (RFC 3339 or 2006-01-02)"
// @Param        to        query     string  false  "End date (RFC 3339 or 2006-01-02)"
// @Param        limit     query     int     false  "Page size"
// @Param        offset    query     int     false  "Page offset"
// @Success      200  {array}   Receipt
// @Failure      400  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /receipts [get]
func (h *Handler) ListReceipts(c *gin.Context) {
	filter := ListFilter{
		Category: c.Query("category"),
	}

	if v := c.Query("from"); v != "" {
		t, err := parseQueryDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseQueryDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
			return
		}
		filter.To = &t
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	receipts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if receipts == nil {
		receipts = []Receipt{}
	}
	c.JSON(http.StatusOK, receipts)
}

// GetReceipt godoc
// @Summary      Get a receipt by ID
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  Receipt
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /receipts/{id} [get]
func (h *Handler) GetReceipt(c *gin.Context) {
	r, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteReceipt godoc
// @Summary      Delete a receipt
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Receipt ID"
// @Success      204  "No Content"
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /receipts/{id} [delete]
func (h *Handler) DeleteReceipt(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseQueryDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
