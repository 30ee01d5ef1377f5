package domain

import (
	"errors"
	"time"
)

var ErrCourseNotFound = errors.New("course not found")
var ErrAlreadyEnrolled = errors.New("student already enrolled")
var ErrNotEnrolled = errors.New("student not enrolled")

// EnrolledStudent is the roster view of an enrolled user. Name and Email are
// populated only by read-time joins; membership decisions use ID alone.
type EnrolledStudent struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Course is the core aggregate root. EnrolledStudents holds at most one entry
// per user id; the store enforces this with atomic set operators.
type Course struct {
	ID                string            `json:"id"`
	CourseName        string            `json:"course_name"`
	CourseDescription string            `json:"course_description"`
	Instructor        string            `json:"instructor"`
	EnrolledStudents  []EnrolledStudent `json:"enrolled_students"`
	CreatedAt         time.Time         `json:"created_at"`
}

// IsEnrolled reports whether the given user appears on the roster. Comparison
// is by canonical id string only, never by struct shape, so a bare reference
// and a joined entry for the same user always compare equal.
func (c *Course) IsEnrolled(userID string) bool {
	for _, s := range c.EnrolledStudents {
		if s.ID == userID {
			return true
		}
	}
	return false
}
