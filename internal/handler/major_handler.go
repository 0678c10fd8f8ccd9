package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-advisor-api/internal/middleware"
	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/pkg/response"
)

type majorService interface {
	GetMajorInfo(ctx context.Context, major string) (*models.MajorInfo, error)
	RefreshMajorInfo(ctx context.Context, major string) (*models.MajorInfo, error)
}

// MajorHandler serves program requirements for a major.
type MajorHandler struct {
	service majorService
}

// NewMajorHandler builds a new handler.
func NewMajorHandler(service majorService) *MajorHandler {
	return &MajorHandler{service: service}
}

// Get godoc
// @Summary Get major requirements
// @Tags Majors
// @Produce json
// @Param major path string true "Major code, e.g. CSCI-BS"
// @Param refresh query bool false "Skip the cache and re-read the catalogue"
// @Success 200 {object} response.ToolResult
// @Failure 404 {object} response.ToolResult
// @Router /majors/{major} [get]
func (h *MajorHandler) Get(c *gin.Context) {
	lookup := h.service.GetMajorInfo
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		lookup = h.service.RefreshMajorInfo
	}
	info, err := lookup(c.Request.Context(), c.Param("major"))
	if err != nil {
		response.ToolError(c, err)
		return
	}
	middleware.SetCacheHit(c, info.Cached)
	response.Tool(c, response.ToolResult{MajorInfo: info.Text})
}
