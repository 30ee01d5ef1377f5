package ports

import (
	"context"

	"github.com/coursehub/course-management/internal/core/domain"
)

// CourseInput carries the admin-supplied fields of a course. All three are
// required together; updates are full replacements.
type CourseInput struct {
	CourseName        string
	CourseDescription string
	Instructor        string
}

// CourseService defines use-case operations on the course catalogue.
type CourseService interface {
	CreateCourse(ctx context.Context, input CourseInput) (*domain.Course, error)
	ListCourses(ctx context.Context, search string) ([]*domain.Course, error)
	UpdateCourse(ctx context.Context, id string, input CourseInput) (*domain.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}
