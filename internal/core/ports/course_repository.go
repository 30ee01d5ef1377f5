package ports

import (
	"context"

	"github.com/coursehub/course-management/internal/core/domain"
)

// ListCoursesFilter carries the query parameters for listing courses.
type ListCoursesFilter struct {
	// Search is an optional case-insensitive substring match on course_name.
	// Empty means all courses.
	Search string
}

// CourseRepository defines persistence operations for courses.
//
// Enroll and Withdraw must behave as atomic single-document check-then-mutate
// operations: under concurrent calls for the same (course, user) pair at most
// one Enroll succeeds and the losers observe domain.ErrAlreadyEnrolled.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	// List returns courses matching filter, newest first, with each roster
	// expanded to the referenced users' name and email.
	List(ctx context.Context, filter ListCoursesFilter) ([]*domain.Course, error)
	// Update replaces course_name, course_description and instructor. It never
	// touches enrolled_students or created_at.
	Update(ctx context.Context, id string, course *domain.Course) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
	Enroll(ctx context.Context, courseID, userID string) error
	Withdraw(ctx context.Context, courseID, userID string) error
}
