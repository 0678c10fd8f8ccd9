package dto

// CourseLookupQuery binds GET /courses.
type CourseLookupQuery struct {
	Term string `form:"term" validate:"required"`
	Code string `form:"code" validate:"required"`
}

// CourseSearchQuery binds GET /courses/search.
type CourseSearchQuery struct {
	Term  string `form:"term" validate:"required"`
	Query string `form:"query" validate:"required"`
}
