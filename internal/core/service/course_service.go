package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

// CourseService implements admin catalogue operations and the authenticated
// course listing.
type CourseService struct {
	repo   ports.CourseRepository
	cache  ports.CourseCache
	logger zerolog.Logger
}

func NewCourseService(repo ports.CourseRepository, cache ports.CourseCache, logger zerolog.Logger) *CourseService {
	return &CourseService{repo: repo, cache: cache, logger: logger}
}

func (s *CourseService) CreateCourse(ctx context.Context, input ports.CourseInput) (*domain.Course, error) {
	if input.CourseName == "" || input.CourseDescription == "" || input.Instructor == "" {
		return nil, domain.ErrInvalidInput
	}

	course := &domain.Course{
		CourseName:        input.CourseName,
		CourseDescription: input.CourseDescription,
		Instructor:        input.Instructor,
		EnrolledStudents:  []domain.EnrolledStudent{},
		CreatedAt:         time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, course)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create course")
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info().Str("course_id", created.ID).Str("course_name", created.CourseName).Msg("course created")
	return created, nil
}

// ListCourses returns courses newest first, each roster expanded with the
// referenced users' name and email. Results are served from the cache when a
// fresh entry exists for the same search term. On a miss, the store result is
// cached under the version observed before the read; a mutation committed in
// between bumps the version and the stale entry is never served.
func (s *CourseService) ListCourses(ctx context.Context, search string) ([]*domain.Course, error) {
	cached, version, ok := s.cache.Get(ctx, search)
	if ok {
		return cached, nil
	}

	courses, err := s.repo.List(ctx, ports.ListCoursesFilter{Search: search})
	if err != nil {
		s.logger.Error().Err(err).Str("search", search).Msg("failed to list courses")
		return nil, err
	}

	s.cache.Set(ctx, search, version, courses)
	return courses, nil
}

// UpdateCourse replaces the three admin-owned fields in full. The roster and
// creation timestamp are left untouched.
func (s *CourseService) UpdateCourse(ctx context.Context, id string, input ports.CourseInput) (*domain.Course, error) {
	if input.CourseName == "" || input.CourseDescription == "" || input.Instructor == "" {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, id, &domain.Course{
		CourseName:        input.CourseName,
		CourseDescription: input.CourseDescription,
		Instructor:        input.Instructor,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info().Str("course_id", id).Msg("course updated")
	return updated, nil
}

// DeleteCourse removes a course. Deleting a missing id is reported as
// domain.ErrCourseNotFound, matching the update path. There is no cascade;
// stale references elsewhere are tolerated.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info().Str("course_id", id).Msg("course deleted")
	return nil
}
