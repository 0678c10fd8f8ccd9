package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// ToolResult is the flat status contract consumed by the advising agent.
type ToolResult struct {
	Status       string      `json:"status"`
	CourseInfo   interface{} `json:"course_info,omitempty"`
	PlanInfo     interface{} `json:"plan_info,omitempty"`
	MajorInfo    string      `json:"major_info,omitempty"`
	SectionID    string      `json:"section_id,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Tool sends a successful tool result.
func Tool(c *gin.Context, result ToolResult) {
	result.Status = StatusSuccess
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, result)
}

// ToolError renders err as an error tool result. The HTTP status follows the
// error kind while the body always carries a human readable message.
func ToolError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, ToolResult{Status: StatusError, ErrorMessage: appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
