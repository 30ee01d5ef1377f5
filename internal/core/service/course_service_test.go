package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

// stubCourseRepo mirrors the real repository's contract, including the atomic
// check-then-mutate semantics of Enroll/Withdraw (guarded by a mutex here,
// by single-document operators in Mongo).
type stubCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*domain.Course
	seq     int
	failErr error  // if set, every call returns this error
	onList  func() // runs once after the next List snapshot, outside the lock
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{courses: make(map[string]*domain.Course)}
}

func cloneCourse(c *domain.Course) *domain.Course {
	clone := *c
	clone.EnrolledStudents = append([]domain.EnrolledStudent(nil), c.EnrolledStudents...)
	return &clone
}

func (r *stubCourseRepo) Create(_ context.Context, course *domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	clone := cloneCourse(course)
	r.seq++
	clone.ID = fmt.Sprintf("course_%d", r.seq)
	r.courses[clone.ID] = clone
	return cloneCourse(clone), nil
}

func (r *stubCourseRepo) List(_ context.Context, filter ports.ListCoursesFilter) ([]*domain.Course, error) {
	r.mu.Lock()
	if r.failErr != nil {
		r.mu.Unlock()
		return nil, r.failErr
	}
	var out []*domain.Course
	for _, c := range r.courses {
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.CourseName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, cloneCourse(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	hook := r.onList
	r.onList = nil
	r.mu.Unlock()

	// Simulates a mutation committing after the snapshot was read but before
	// the caller caches it.
	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *stubCourseRepo) Update(_ context.Context, id string, course *domain.Course) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	existing, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	existing.CourseName = course.CourseName
	existing.CourseDescription = course.CourseDescription
	existing.Instructor = course.Instructor
	return cloneCourse(existing), nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *stubCourseRepo) Enroll(_ context.Context, courseID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	course, ok := r.courses[courseID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	if course.IsEnrolled(userID) {
		return domain.ErrAlreadyEnrolled
	}
	course.EnrolledStudents = append(course.EnrolledStudents, domain.EnrolledStudent{ID: userID})
	return nil
}

func (r *stubCourseRepo) Withdraw(_ context.Context, courseID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	course, ok := r.courses[courseID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	if !course.IsEnrolled(userID) {
		return domain.ErrNotEnrolled
	}
	kept := course.EnrolledStudents[:0]
	for _, s := range course.EnrolledStudents {
		if s.ID != userID {
			kept = append(kept, s)
		}
	}
	course.EnrolledStudents = kept
	return nil
}

func (r *stubCourseRepo) rosterSize(courseID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[courseID]; ok {
		return len(c.EnrolledStudents)
	}
	return -1
}

// stubCache mirrors the real cache's versioned semantics: entries are stored
// under the version passed to Set and served only while that version is still
// current, so an Invalidate between Get and Set orphans the write.
type stubCache struct {
	mu           sync.Mutex
	version      int64
	entries      map[string]stubCacheEntry
	sets         int
	invalidation int
}

type stubCacheEntry struct {
	version int64
	courses []*domain.Course
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]stubCacheEntry)}
}

func (c *stubCache) Get(_ context.Context, search string) ([]*domain.Course, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[search]
	if !ok || entry.version != c.version {
		return nil, c.version, false
	}
	return entry.courses, c.version, true
}

func (c *stubCache) Set(_ context.Context, search string, version int64, courses []*domain.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[search] = stubCacheEntry{version: version, courses: courses}
	c.sets++
}

func (c *stubCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.invalidation++
}

// prime stores an entry under the current version, as a fresh Set would.
func (c *stubCache) prime(search string, courses []*domain.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[search] = stubCacheEntry{version: c.version, courses: courses}
}

func newTestCourseService(repo *stubCourseRepo, cache *stubCache) *CourseService {
	return NewCourseService(repo, cache, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCourseService_CreateCourse(t *testing.T) {
	repo := newStubCourseRepo()
	cache := newStubCache()
	svc := newTestCourseService(repo, cache)

	course, err := svc.CreateCourse(context.Background(), ports.CourseInput{
		CourseName:        "CS101",
		CourseDescription: "Intro",
		Instructor:        "Dr. K",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if course.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if len(course.EnrolledStudents) != 0 {
		t.Fatalf("expected empty roster, got %d", len(course.EnrolledStudents))
	}
	if course.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
	if cache.invalidation != 1 {
		t.Fatalf("expected one cache invalidation, got %d", cache.invalidation)
	}
}

func TestCourseService_CreateCourse_Validation(t *testing.T) {
	svc := newTestCourseService(newStubCourseRepo(), newStubCache())

	inputs := []ports.CourseInput{
		{CourseDescription: "d", Instructor: "i"},
		{CourseName: "n", Instructor: "i"},
		{CourseName: "n", CourseDescription: "d"},
	}
	for _, in := range inputs {
		if _, err := svc.CreateCourse(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestCourseService_ListCourses_SearchAndOrder(t *testing.T) {
	repo := newStubCourseRepo()
	cache := newStubCache()
	svc := newTestCourseService(repo, cache)

	base := time.Now().UTC()
	for i, name := range []string{"Intro to React", "Go Systems", "Advanced REACT Patterns"} {
		repo.courses[fmt.Sprintf("c%d", i)] = &domain.Course{
			ID:         fmt.Sprintf("c%d", i),
			CourseName: name,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
	}

	matched, err := svc.ListCourses(context.Background(), "react")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matched))
	}

	all, err := svc.ListCourses(context.Background(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("expected newest-first ordering")
		}
	}
}

func TestCourseService_ListCourses_CacheHit(t *testing.T) {
	repo := newStubCourseRepo()
	cache := newStubCache()
	svc := newTestCourseService(repo, cache)

	cached := []*domain.Course{{ID: "c1", CourseName: "Cached"}}
	cache.prime("", cached)

	repo.failErr = errors.New("store must not be touched on a cache hit")
	got, err := svc.ListCourses(context.Background(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 || got[0].CourseName != "Cached" {
		t.Fatalf("expected cached result, got %+v", got)
	}
}

func TestCourseService_ListCourses_MutationDuringReadIsNotCached(t *testing.T) {
	repo := newStubCourseRepo()
	cache := newStubCache()
	svc := newTestCourseService(repo, cache)

	created, err := svc.CreateCourse(context.Background(), ports.CourseInput{
		CourseName: "Old Name", CourseDescription: "Intro", Instructor: "Dr. K",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// An update commits, and invalidates the cache, after the listing has
	// read its snapshot from the store but before the snapshot is cached.
	repo.onList = func() {
		if _, err := svc.UpdateCourse(context.Background(), created.ID, ports.CourseInput{
			CourseName: "New Name", CourseDescription: "Intro", Instructor: "Dr. K",
		}); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	if _, err := svc.ListCourses(context.Background(), ""); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected the racing list to attempt a cache write, got %d", cache.sets)
	}

	// The stale snapshot was written under the pre-update version; the next
	// read must go back to the store and see the update.
	fresh, err := svc.ListCourses(context.Background(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(fresh) != 1 || fresh[0].CourseName != "New Name" {
		t.Fatalf("stale listing served after update: %+v", fresh)
	}
}

func TestCourseService_UpdateCourse(t *testing.T) {
	repo := newStubCourseRepo()
	cache := newStubCache()
	svc := newTestCourseService(repo, cache)

	created, _ := svc.CreateCourse(context.Background(), ports.CourseInput{
		CourseName: "CS101", CourseDescription: "Intro", Instructor: "Dr. K",
	})
	repo.courses[created.ID].EnrolledStudents = []domain.EnrolledStudent{{ID: "u1"}}

	updated, err := svc.UpdateCourse(context.Background(), created.ID, ports.CourseInput{
		CourseName: "CS102", CourseDescription: "Intermediate", Instructor: "Dr. L",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CourseName != "CS102" || updated.Instructor != "Dr. L" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if len(updated.EnrolledStudents) != 1 {
		t.Fatalf("update must not touch the roster")
	}

	if _, err := svc.UpdateCourse(context.Background(), "missing", ports.CourseInput{
		CourseName: "X", CourseDescription: "Y", Instructor: "Z",
	}); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_DeleteCourse(t *testing.T) {
	repo := newStubCourseRepo()
	cache := newStubCache()
	svc := newTestCourseService(repo, cache)

	created, _ := svc.CreateCourse(context.Background(), ports.CourseInput{
		CourseName: "CS101", CourseDescription: "Intro", Instructor: "Dr. K",
	})

	if err := svc.DeleteCourse(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// Missing ids surface as not found, matching the update path.
	if err := svc.DeleteCourse(context.Background(), created.ID); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound on repeat delete, got %v", err)
	}
}
