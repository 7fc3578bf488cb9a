package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"channel-relay-go/internal/models"
)

// GetMessages returns recent processed records, optionally filtered by
// mapping and posted state. Unposted records are the pending-delivery
// backlog awaiting manual reconciliation.
func (h *Handlers) GetMessages(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_error", Message: "Invalid limit parameter", Code: http.StatusBadRequest})
			return
		}
		limit = parsed
	}

	var posted *bool
	if raw := c.Query("posted"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_error", Message: "Invalid posted parameter", Code: http.StatusBadRequest})
			return
		}
		posted = &parsed
	}

	messages, err := h.store.ListMessages(c.Query("mapping_id"), posted, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch messages",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetLogs returns recent forward logs
func (h *Handlers) GetLogs(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_error", Message: "Invalid limit parameter", Code: http.StatusBadRequest})
			return
		}
		limit = parsed
	}

	logs, err := h.store.ListLogs(c.Query("mapping_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch logs",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, logs)
}
