package domain

import "time"

// RosterAction distinguishes the two roster mutations.
type RosterAction string

const (
	RosterEnrolled RosterAction = "enrolled"
	RosterLeft     RosterAction = "left"
)

// RosterEvent records a completed enrollment or withdrawal. Events are
// processed asynchronously, ordered per course.
type RosterEvent struct {
	CourseID   string       `json:"course_id"`
	CourseName string       `json:"course_name,omitempty"`
	UserID     string       `json:"user_id"`
	Action     RosterAction `json:"action"`
	OccurredAt time.Time    `json:"occurred_at"`
}
