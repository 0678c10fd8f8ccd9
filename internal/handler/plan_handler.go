package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-advisor-api/internal/dto"
	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/internal/service"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
	"github.com/noah-isme/course-advisor-api/pkg/response"
)

type planService interface {
	GetPlan(ctx context.Context, userID, planID string) (*models.Plan, error)
	ListPlans(ctx context.Context, userID string) ([]models.PlanSummary, error)
	CreatePlan(ctx context.Context, userID string, req dto.CreatePlanRequest) (*models.Plan, error)
	AddSection(ctx context.Context, req dto.AddSectionRequest) (*models.PlanEntry, error)
	RemoveSection(ctx context.Context, req dto.RemoveSectionRequest) (*service.RemoveResult, error)
	AttachSession(ctx context.Context, userID, planID string, req dto.AttachSessionRequest) (*models.Plan, error)
	DetachSession(ctx context.Context, userID, planID string) error
}

type conflictService interface {
	Conflicts(ctx context.Context, userID, planID string) ([]models.PlanConflict, error)
}

type exportService interface {
	Export(ctx context.Context, userID, planID string, format service.ExportFormat, term string) (*dto.PlanExport, error)
}

// PlanHandler exposes plan reads and mutations.
type PlanHandler struct {
	plans     planService
	conflicts conflictService
	exports   exportService
}

// NewPlanHandler builds a new handler.
func NewPlanHandler(plans planService, conflicts conflictService, exports exportService) *PlanHandler {
	return &PlanHandler{plans: plans, conflicts: conflicts, exports: exports}
}

// GetPlan godoc
// @Summary Get a course plan
// @Tags Plans
// @Produce json
// @Param userID path string true "User ID"
// @Param planID path string true "Plan ID"
// @Success 200 {object} response.ToolResult
// @Failure 404 {object} response.ToolResult
// @Router /users/{userID}/plans/{planID} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("userID"), c.Param("planID"))
	if err != nil {
		response.ToolError(c, err)
		return
	}
	response.Tool(c, response.ToolResult{PlanInfo: plan})
}

// AddSection godoc
// @Summary Add a section to a plan
// @Description Resolves the section against the catalog for the given term and appends its snapshot.
// @Tags Plans
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param planID path string true "Plan ID"
// @Param payload body dto.AddSectionRequest true "Section to add"
// @Success 200 {object} response.ToolResult
// @Failure 400 {object} response.ToolResult
// @Failure 404 {object} response.ToolResult
// @Failure 502 {object} response.ToolResult
// @Router /users/{userID}/plans/{planID}/sections [post]
func (h *PlanHandler) AddSection(c *gin.Context) {
	var req dto.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ToolError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section payload"))
		return
	}
	req.UserID = c.Param("userID")
	req.PlanID = c.Param("planID")

	if _, err := h.plans.AddSection(c.Request.Context(), req); err != nil {
		response.ToolError(c, err)
		return
	}
	response.Tool(c, response.ToolResult{})
}

// RemoveSection godoc
// @Summary Remove a section from a plan
// @Description Removing a section the plan does not hold succeeds without changes.
// @Tags Plans
// @Produce json
// @Param userID path string true "User ID"
// @Param planID path string true "Plan ID"
// @Param sectionID path string true "Section ID"
// @Success 200 {object} response.ToolResult
// @Failure 404 {object} response.ToolResult
// @Failure 502 {object} response.ToolResult
// @Router /users/{userID}/plans/{planID}/sections/{sectionID} [delete]
func (h *PlanHandler) RemoveSection(c *gin.Context) {
	result, err := h.plans.RemoveSection(c.Request.Context(), dto.RemoveSectionRequest{
		UserID:    c.Param("userID"),
		PlanID:    c.Param("planID"),
		SectionID: c.Param("sectionID"),
	})
	if err != nil {
		response.ToolError(c, err)
		return
	}
	response.Tool(c, response.ToolResult{SectionID: result.SectionID})
}

// ListPlans godoc
// @Summary List a user's plans
// @Tags Plans
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{userID}/plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.plans.ListPlans(c.Request.Context(), c.Param("userID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, map[string]interface{}{"total": len(plans)})
}

// CreatePlan godoc
// @Summary Create an empty plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param payload body dto.CreatePlanRequest false "Plan title"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/{userID}/plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
			return
		}
	}
	plan, err := h.plans.CreatePlan(c.Request.Context(), c.Param("userID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// AttachSession godoc
// @Summary Bind an agent session to a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param planID path string true "Plan ID"
// @Param payload body dto.AttachSessionRequest true "Session"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userID}/plans/{planID}/session [put]
func (h *PlanHandler) AttachSession(c *gin.Context) {
	var req dto.AttachSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	plan, err := h.plans.AttachSession(c.Request.Context(), c.Param("userID"), c.Param("planID"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// DetachSession godoc
// @Summary Clear the session bound to a plan
// @Tags Plans
// @Param userID path string true "User ID"
// @Param planID path string true "Plan ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /users/{userID}/plans/{planID}/session [delete]
func (h *PlanHandler) DetachSession(c *gin.Context) {
	if err := h.plans.DetachSession(c.Request.Context(), c.Param("userID"), c.Param("planID")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Conflicts godoc
// @Summary Report meeting time conflicts in a plan
// @Tags Plans
// @Produce json
// @Param userID path string true "User ID"
// @Param planID path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userID}/plans/{planID}/conflicts [get]
func (h *PlanHandler) Conflicts(c *gin.Context) {
	conflicts, err := h.conflicts.Conflicts(c.Request.Context(), c.Param("userID"), c.Param("planID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, map[string]interface{}{"total": len(conflicts)})
}

// Export godoc
// @Summary Download a plan
// @Tags Plans
// @Produce octet-stream
// @Param userID path string true "User ID"
// @Param planID path string true "Plan ID"
// @Param format query string false "csv, pdf, xlsx or ics" default(csv)
// @Param term query string false "Term code, required for ics"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{userID}/plans/{planID}/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.exports.Export(c.Request.Context(), c.Param("userID"), c.Param("planID"), format, c.Query("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
