package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type courseRequest struct {
	CourseName        string `json:"course_name"        validate:"required"`
	CourseDescription string `json:"course_description" validate:"required"`
	Instructor        string `json:"instructor"         validate:"required"`
}

// --- Response types ---
// Response-only types owned by the transport layer. These are intentionally
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type enrolledStudentResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type courseResponse struct {
	ID                string                    `json:"id"`
	CourseName        string                    `json:"course_name"`
	CourseDescription string                    `json:"course_description"`
	Instructor        string                    `json:"instructor"`
	EnrolledStudents  []enrolledStudentResponse `json:"enrolled_students"`
	CreatedAt         time.Time                 `json:"created_at"`
}

type ackResponse struct {
	Message string `json:"message"`
}
