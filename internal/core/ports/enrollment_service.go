package ports

import "context"

// EnrollmentService enforces the per-(course, user) enrollment state machine:
// NotEnrolled -> Enrolled via Enroll, Enrolled -> NotEnrolled via Leave.
// Any other transition is a state conflict.
type EnrollmentService interface {
	Enroll(ctx context.Context, courseID, userID string) error
	Leave(ctx context.Context, courseID, userID string) error
}
