package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-advisor-api/internal/dto"
	"github.com/noah-isme/course-advisor-api/internal/models"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
	"github.com/noah-isme/course-advisor-api/pkg/response"
)

type catalogService interface {
	GetCourseInfo(ctx context.Context, query dto.CourseLookupQuery) (*models.Course, error)
	SearchCourses(ctx context.Context, query dto.CourseSearchQuery) (*models.CourseSearchResult, error)
}

// CatalogHandler exposes read-only course lookups.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// GetCourse godoc
// @Summary Get course information
// @Description Looks up a course for a term. The course code is normalized before the catalog is queried.
// @Tags Catalog
// @Produce json
// @Param term query string true "Term code, e.g. 20253"
// @Param code query string true "Course code, e.g. CSCI 104"
// @Success 200 {object} response.ToolResult
// @Failure 404 {object} response.ToolResult
// @Router /courses [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	var query dto.CourseLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ToolError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course query"))
		return
	}
	course, err := h.service.GetCourseInfo(c.Request.Context(), query)
	if err != nil {
		response.ToolError(c, err)
		return
	}
	var info interface{} = course
	if len(course.Raw) > 0 {
		info = json.RawMessage(course.Raw)
	}
	response.Tool(c, response.ToolResult{CourseInfo: info})
}

// Search godoc
// @Summary Search courses
// @Description Returns the catalog search body with at most ten courses.
// @Tags Catalog
// @Produce json
// @Param term query string true "Term code"
// @Param query query string true "Search text"
// @Success 200 {object} response.ToolResult
// @Failure 404 {object} response.ToolResult
// @Router /courses/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	var query dto.CourseSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ToolError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search query"))
		return
	}
	result, err := h.service.SearchCourses(c.Request.Context(), query)
	if err != nil {
		response.ToolError(c, err)
		return
	}
	response.Tool(c, response.ToolResult{CourseInfo: result})
}
