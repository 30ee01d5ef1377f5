package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

// EnrollmentService coordinates the enroll/leave state machine for a
// (course, user) pair. The check-then-mutate itself is delegated to the
// repository's atomic single-document primitives, so concurrent enrolls of
// the same pair cannot both succeed; this service owns id canonicalization,
// cache invalidation and activity fan-out.
type EnrollmentService struct {
	repo   ports.CourseRepository
	cache  ports.CourseCache
	events ports.RosterEnqueuer
	logger zerolog.Logger
	now    func() time.Time
}

func NewEnrollmentService(repo ports.CourseRepository, cache ports.CourseCache, events ports.RosterEnqueuer, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{repo: repo, cache: cache, events: events, logger: logger, now: time.Now}
}

// Enroll moves the pair from NotEnrolled to Enrolled. A pair already in
// Enrolled yields domain.ErrAlreadyEnrolled; a missing course yields
// domain.ErrCourseNotFound.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID, userID string) error {
	courseID, userID, err := canonicalPair(courseID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Enroll(ctx, courseID, userID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	s.emit(courseID, userID, domain.RosterEnrolled)
	s.logger.Info().Str("course_id", courseID).Str("user_id", userID).Msg("student enrolled")
	return nil
}

// Leave moves the pair from Enrolled to NotEnrolled. A pair not in Enrolled
// yields domain.ErrNotEnrolled; a missing course yields
// domain.ErrCourseNotFound.
func (s *EnrollmentService) Leave(ctx context.Context, courseID, userID string) error {
	courseID, userID, err := canonicalPair(courseID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Withdraw(ctx, courseID, userID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	s.emit(courseID, userID, domain.RosterLeft)
	s.logger.Info().Str("course_id", courseID).Str("user_id", userID).Msg("student left course")
	return nil
}

func (s *EnrollmentService) emit(courseID, userID string, action domain.RosterAction) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.RosterEvent{
		CourseID:   courseID,
		UserID:     userID,
		Action:     action,
		OccurredAt: s.now().UTC(),
	})
}

// canonicalPair normalizes both ids to their canonical string form before any
// membership comparison. Ids arrive in one representation only (hex strings),
// so canonicalization is trimming plus lowercasing; the repository rejects
// anything that fails to parse as a document id.
func canonicalPair(courseID, userID string) (string, string, error) {
	courseID = strings.ToLower(strings.TrimSpace(courseID))
	userID = strings.ToLower(strings.TrimSpace(userID))
	if courseID == "" {
		return "", "", domain.ErrCourseNotFound
	}
	if userID == "" {
		return "", "", domain.ErrInvalidInput
	}
	return courseID, userID, nil
}
