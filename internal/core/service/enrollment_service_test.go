package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

type stubEnqueuer struct {
	mu     sync.Mutex
	events []domain.RosterEvent
}

func (e *stubEnqueuer) Enqueue(event domain.RosterEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *stubEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func newTestEnrollmentService(repo *stubCourseRepo, cache *stubCache, events *stubEnqueuer) *EnrollmentService {
	return NewEnrollmentService(repo, cache, events, zerolog.Nop())
}

func seedCourse(repo *stubCourseRepo) string {
	course, _ := repo.Create(context.Background(), &domain.Course{
		CourseName:        "CS101",
		CourseDescription: "Intro",
		Instructor:        "Dr. K",
		EnrolledStudents:  []domain.EnrolledStudent{},
	})
	return course.ID
}

func TestEnrollmentService_Enroll_ThenDuplicate(t *testing.T) {
	repo := newStubCourseRepo()
	events := &stubEnqueuer{}
	svc := newTestEnrollmentService(repo, newStubCache(), events)
	courseID := seedCourse(repo)

	if err := svc.Enroll(context.Background(), courseID, "u1"); err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}
	if err := svc.Enroll(context.Background(), courseID, "u1"); !errors.Is(err, domain.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if got := repo.rosterSize(courseID); got != 1 {
		t.Fatalf("expected roster size 1, got %d", got)
	}
	if events.count() != 1 {
		t.Fatalf("expected one roster event, got %d", events.count())
	}
}

func TestEnrollmentService_Enroll_CourseMissing(t *testing.T) {
	repo := newStubCourseRepo()
	svc := newTestEnrollmentService(repo, newStubCache(), &stubEnqueuer{})

	if err := svc.Enroll(context.Background(), "missing", "u1"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollmentService_Leave_WithoutEnroll(t *testing.T) {
	repo := newStubCourseRepo()
	events := &stubEnqueuer{}
	svc := newTestEnrollmentService(repo, newStubCache(), events)
	courseID := seedCourse(repo)

	if err := svc.Leave(context.Background(), courseID, "u1"); !errors.Is(err, domain.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
	if got := repo.rosterSize(courseID); got != 0 {
		t.Fatalf("roster must be unchanged, got %d", got)
	}
	if events.count() != 0 {
		t.Fatalf("no events expected on a rejected transition")
	}
}

func TestEnrollmentService_RoundTrip(t *testing.T) {
	repo := newStubCourseRepo()
	svc := newTestEnrollmentService(repo, newStubCache(), &stubEnqueuer{})
	courseID := seedCourse(repo)

	if err := svc.Enroll(context.Background(), courseID, "u1"); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if err := svc.Leave(context.Background(), courseID, "u1"); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if err := svc.Enroll(context.Background(), courseID, "u1"); err != nil {
		t.Fatalf("re-enroll failed: %v", err)
	}
	if got := repo.rosterSize(courseID); got != 1 {
		t.Fatalf("expected user enrolled exactly once, roster size %d", got)
	}
}

func TestEnrollmentService_ConcurrentEnroll_OneWinner(t *testing.T) {
	repo := newStubCourseRepo()
	svc := newTestEnrollmentService(repo, newStubCache(), &stubEnqueuer{})
	courseID := seedCourse(repo)

	const attempts = 16
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Enroll(context.Background(), courseID, "u1")
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyEnrolled):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != attempts-1 {
		t.Fatalf("expected exactly one winner, got ok=%d conflicts=%d", ok, conflicts)
	}
	if got := repo.rosterSize(courseID); got != 1 {
		t.Fatalf("expected roster size 1, got %d", got)
	}
}

func TestEnrollmentService_CanonicalizesIDs(t *testing.T) {
	repo := newStubCourseRepo()
	svc := newTestEnrollmentService(repo, newStubCache(), &stubEnqueuer{})
	courseID := seedCourse(repo)

	if err := svc.Enroll(context.Background(), "  "+courseID+" ", "U1"); err != nil {
		t.Fatalf("enroll with uncanonical ids failed: %v", err)
	}
	// The same identity in a different surface form must be a duplicate.
	if err := svc.Enroll(context.Background(), courseID, "u1"); !errors.Is(err, domain.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled after canonicalization, got %v", err)
	}
}

func TestEnrollmentService_InvalidIDs(t *testing.T) {
	svc := newTestEnrollmentService(newStubCourseRepo(), newStubCache(), &stubEnqueuer{})

	if err := svc.Enroll(context.Background(), "", "u1"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound for empty course id, got %v", err)
	}
	if err := svc.Leave(context.Background(), "c1", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty user id, got %v", err)
	}
}

var _ ports.EnrollmentService = (*EnrollmentService)(nil)
