package dto

// AddSectionRequest is the payload for adding a catalog section to a plan.
// UserID and PlanID come from the route.
type AddSectionRequest struct {
	UserID     string `json:"-" validate:"required"`
	PlanID     string `json:"-" validate:"required"`
	CourseCode string `json:"courseCode" validate:"required"`
	SectionID  string `json:"sectionId" validate:"required"`
	Term       string `json:"term" validate:"required"`
}

// RemoveSectionRequest identifies a section to drop from a plan.
type RemoveSectionRequest struct {
	UserID    string `validate:"required"`
	PlanID    string `validate:"required"`
	SectionID string `validate:"required"`
}

// CreatePlanRequest starts a new empty plan for a user.
type CreatePlanRequest struct {
	Title string `json:"title" validate:"max=120"`
}

// AttachSessionRequest binds an agent session to a plan.
type AttachSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=128"`
}

// PlanExport is a rendered plan document ready to stream.
type PlanExport struct {
	Filename    string
	ContentType string
	Content     []byte
}
