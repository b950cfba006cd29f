package services

import (
	"context"
	"sync"
	"testing"

	"github.com/courseloop/courseloop-backend/internal/data/repos/testutil"
	types "github.com/courseloop/courseloop-backend/internal/domain"
)

// fakeCatalogCache stands in for the redis-backed cache so the tests
// can observe reads, writes and invalidations.
type fakeCatalogCache struct {
	mu          sync.Mutex
	courses     []*types.Course
	hasValue    bool
	sets        int
	invalidates int
}

func (f *fakeCatalogCache) GetPublicCourses(ctx context.Context) ([]*types.Course, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasValue {
		return nil, false
	}
	return f.courses, true
}

func (f *fakeCatalogCache) SetPublicCourses(ctx context.Context, courses []*types.Course) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses = courses
	f.hasValue = true
	f.sets++
}

func (f *fakeCatalogCache) InvalidatePublicCourses(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses = nil
	f.hasValue = false
	f.invalidates++
}

func (f *fakeCatalogCache) Close() error { return nil }

func (f *fakeCatalogCache) invalidations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidates
}

func (h *harness) withCache(t *testing.T, cache *fakeCatalogCache) (CourseService, TopicService, ContentService) {
	t.Helper()
	log := testutil.Logger(t)
	courseSvc := NewCourseService(h.db, h.courseRepo, h.topicRepo, h.contentRepo, h.enrollmentRepo, h.quizRepo, h.examRepo, h.teacherRepo, h.subjectRepo, h.ownership, cache, log)
	topicSvc := NewTopicService(h.db, h.topicRepo, h.contentRepo, h.ownership, cache, log)
	contentSvc := NewContentService(h.contentRepo, h.topicRepo, h.ownership, cache, log)
	return courseSvc, topicSvc, contentSvc
}

func TestListPublicFillsCacheAndServesHits(t *testing.T) {
	h := newHarness(t)
	cache := &fakeCatalogCache{}
	courseSvc, _, _ := h.withCache(t, cache)

	ctx, _, te := h.seedTeacherContext(t)
	testutil.SeedCourse(t, ctx, h.db, te.ID, "Cache Fill A", true)

	first, err := courseSvc.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic miss: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("got=%d cache writes, want=1", cache.sets)
	}

	// A row added behind the cache stays invisible until invalidation.
	testutil.SeedCourse(t, ctx, h.db, te.ID, "Cache Fill B", true)
	second, err := courseSvc.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic hit: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("cached listing changed size: got=%d want=%d", len(second), len(first))
	}
	for _, c := range second {
		if c.Title == "Cache Fill B" {
			t.Fatalf("cached listing leaked an uncached row")
		}
	}

	cache.InvalidatePublicCourses(ctx)
	third, err := courseSvc.ListPublic(ctx)
	if err != nil {
		t.Fatalf("ListPublic after invalidation: %v", err)
	}
	if len(third) != len(first)+1 {
		t.Fatalf("got=%d courses after refill, want=%d", len(third), len(first)+1)
	}
	if cache.sets != 2 {
		t.Fatalf("got=%d cache writes, want=2", cache.sets)
	}
}

func TestCatalogMutationsInvalidateCache(t *testing.T) {
	h := newHarness(t)
	cache := &fakeCatalogCache{}
	courseSvc, topicSvc, contentSvc := h.withCache(t, cache)

	ctx, _, _ := h.seedTeacherContext(t)

	mustGrow := func(step string, before int) int {
		t.Helper()
		after := cache.invalidations()
		if after <= before {
			t.Fatalf("%s did not invalidate the catalog cache", step)
		}
		return after
	}

	n := cache.invalidations()
	course, err := courseSvc.Create(ctx, &CreateCourseInput{
		Title:    "Cache Invalidation",
		IsPublic: true,
		Image:    []byte{0x1},
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	n = mustGrow("course create", n)

	topic, err := topicSvc.AddToCourse(ctx, course.ID, "Topic")
	if err != nil {
		t.Fatalf("add topic: %v", err)
	}
	n = mustGrow("topic add", n)

	content, err := contentSvc.AddToTopic(ctx, topic.ID, "TEXT", "hello")
	if err != nil {
		t.Fatalf("add content: %v", err)
	}
	n = mustGrow("content add", n)

	if _, err := contentSvc.Update(ctx, content.ID, "LINK", "http://example.com"); err != nil {
		t.Fatalf("update content: %v", err)
	}
	n = mustGrow("content update", n)

	if err := contentSvc.Delete(ctx, content.ID); err != nil {
		t.Fatalf("delete content: %v", err)
	}
	n = mustGrow("content delete", n)

	if err := topicSvc.Delete(ctx, topic.ID); err != nil {
		t.Fatalf("delete topic: %v", err)
	}
	n = mustGrow("topic delete", n)

	if err := courseSvc.Delete(ctx, course.ID); err != nil {
		t.Fatalf("delete course: %v", err)
	}
	mustGrow("course delete", n)
}
