package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"channel-relay-go/internal/models"
)

// GetMappings returns all channel mappings
func (h *Handlers) GetMappings(c *gin.Context) {
	mappings, err := h.store.GetAllMappings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch mappings",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusOK, mappings)
}

// CreateMapping creates a new channel mapping
func (h *Handlers) CreateMapping(c *gin.Context) {
	var req models.ChannelMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	mapping := models.ChannelMapping{
		MappingID:         req.MappingID,
		SourceChannelID:   req.SourceChannelID,
		SourceChannelName: req.SourceChannelName,
		TargetChannelID:   req.TargetChannelID,
		TargetChannelName: req.TargetChannelName,
		Keywords:          req.Keywords,
		Signature:         req.Signature,
		PromptTemplate:    req.PromptTemplate,
		Footer:            req.Footer,
		Active:            active,
	}
	if err := h.store.CreateMapping(&mapping); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create mapping",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, mapping)
}

// GetMapping returns a single mapping by mapping id
func (h *Handlers) GetMapping(c *gin.Context) {
	mapping, err := h.store.GetMapping(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to fetch mapping", Code: http.StatusInternalServerError})
		return
	}
	if mapping == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Mapping not found", Code: http.StatusNotFound})
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// UpdateMapping updates an existing mapping. The mapping id itself is
// immutable.
func (h *Handlers) UpdateMapping(c *gin.Context) {
	mapping, err := h.store.GetMapping(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to fetch mapping", Code: http.StatusInternalServerError})
		return
	}
	if mapping == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Mapping not found", Code: http.StatusNotFound})
		return
	}

	var req models.ChannelMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_error", Message: "Invalid request body", Code: http.StatusBadRequest})
		return
	}

	if req.SourceChannelID != 0 {
		mapping.SourceChannelID = req.SourceChannelID
	}
	if req.SourceChannelName != "" {
		mapping.SourceChannelName = req.SourceChannelName
	}
	if req.TargetChannelID != 0 {
		mapping.TargetChannelID = req.TargetChannelID
	}
	if req.TargetChannelName != "" {
		mapping.TargetChannelName = req.TargetChannelName
	}
	if req.Keywords != nil {
		mapping.Keywords = req.Keywords
	}
	mapping.Signature = req.Signature
	mapping.PromptTemplate = req.PromptTemplate
	mapping.Footer = req.Footer
	if req.Active != nil {
		mapping.Active = *req.Active
	}

	if err := h.store.UpdateMapping(mapping); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to update mapping", Code: http.StatusInternalServerError})
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// DeleteMapping deletes a mapping by mapping id
func (h *Handlers) DeleteMapping(c *gin.Context) {
	if err := h.store.DeleteMapping(c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Mapping not found", Code: http.StatusNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to delete mapping", Code: http.StatusInternalServerError})
		return
	}
	c.Status(http.StatusNoContent)
}

// EnableMapping activates a mapping by mapping id
func (h *Handlers) EnableMapping(c *gin.Context) {
	h.setMappingActive(c, true)
}

// DisableMapping deactivates a mapping by mapping id
func (h *Handlers) DisableMapping(c *gin.Context) {
	h.setMappingActive(c, false)
}

func (h *Handlers) setMappingActive(c *gin.Context, active bool) {
	if err := h.db.Model(&models.ChannelMapping{}).Where("mapping_id = ?", c.Param("id")).Update("active", active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to update mapping", Code: http.StatusInternalServerError})
		return
	}
	c.Status(http.StatusNoContent)
}

// CatchUpMapping runs a one-shot historical catch-up for a mapping
func (h *Handlers) CatchUpMapping(c *gin.Context) {
	mapping, err := h.store.GetMapping(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database_error", Message: "Failed to fetch mapping", Code: http.StatusInternalServerError})
		return
	}
	if mapping == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Mapping not found", Code: http.StatusNotFound})
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_error", Message: "Invalid days parameter", Code: http.StatusBadRequest})
			return
		}
		days = parsed
	}

	processed, err := h.processor.ProcessHistorical(c.Request.Context(), mapping, h.opts, time.Duration(days)*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "processing_error", Message: err.Error(), Code: http.StatusInternalServerError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
