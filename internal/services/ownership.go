package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

// EntityKind names a level of the course tree for ownership checks.
type EntityKind string

const (
	KindCourse  EntityKind = "course"
	KindTopic   EntityKind = "topic"
	KindContent EntityKind = "content"
)

// OwnershipService resolves which user owns a course-tree entity and
// enforces that mutations come from that user. Existence is always
// checked before ownership so a missing entity reports 404 rather
// than leaking an authorization failure.
type OwnershipService interface {
	ResolveOwnerUserID(ctx context.Context, tx *gorm.DB, kind EntityKind, id uuid.UUID) (uuid.UUID, error)
	Authorize(ctx context.Context, tx *gorm.DB, kind EntityKind, id uuid.UUID, callerUserID uuid.UUID) error
}

type ownershipService struct {
	courseRepo  catalog.CourseRepo
	topicRepo   catalog.TopicRepo
	contentRepo catalog.ContentRepo
	teacherRepo catalog.TeacherRepo
	log         *logger.Logger
}

func NewOwnershipService(
	courseRepo catalog.CourseRepo,
	topicRepo catalog.TopicRepo,
	contentRepo catalog.ContentRepo,
	teacherRepo catalog.TeacherRepo,
	baseLog *logger.Logger,
) OwnershipService {
	return &ownershipService{
		courseRepo:  courseRepo,
		topicRepo:   topicRepo,
		contentRepo: contentRepo,
		teacherRepo: teacherRepo,
		log:         baseLog.With("service", "OwnershipService"),
	}
}

// ResolveOwnerUserID walks content -> topic -> course -> teacher and
// returns the owning user's id. Each missing link reports the
// not-found of the entity that broke the chain.
func (os *ownershipService) ResolveOwnerUserID(ctx context.Context, tx *gorm.DB, kind EntityKind, id uuid.UUID) (uuid.UUID, error) {
	courseID := id
	switch kind {
	case KindContent:
		contents, err := os.contentRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			os.log.Error("Failed to load content for ownership check", "content_id", id, "error", err)
			return uuid.Nil, operationFailed()
		}
		if len(contents) == 0 {
			return uuid.Nil, apierr.New(http.StatusNotFound, "content_not_found", fmt.Errorf("content not found"))
		}
		id = contents[0].TopicID
		fallthrough
	case KindTopic:
		topics, err := os.topicRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			os.log.Error("Failed to load topic for ownership check", "topic_id", id, "error", err)
			return uuid.Nil, operationFailed()
		}
		if len(topics) == 0 {
			return uuid.Nil, apierr.New(http.StatusNotFound, "topic_not_found", fmt.Errorf("topic not found"))
		}
		courseID = topics[0].CourseID
	}

	courses, err := os.courseRepo.GetByIDs(ctx, tx, []uuid.UUID{courseID})
	if err != nil {
		os.log.Error("Failed to load course for ownership check", "course_id", courseID, "error", err)
		return uuid.Nil, operationFailed()
	}
	if len(courses) == 0 {
		return uuid.Nil, apierr.New(http.StatusNotFound, "course_not_found", fmt.Errorf("course not found"))
	}

	teachers, err := os.teacherRepo.GetByIDs(ctx, tx, []uuid.UUID{courses[0].TeacherID})
	if err != nil {
		os.log.Error("Failed to load teacher for ownership check", "teacher_id", courses[0].TeacherID, "error", err)
		return uuid.Nil, operationFailed()
	}
	if len(teachers) == 0 {
		return uuid.Nil, apierr.New(http.StatusNotFound, "teacher_not_found", fmt.Errorf("teacher not found"))
	}
	return teachers[0].UserID, nil
}

// Authorize returns nil only when callerUserID owns the entity.
func (os *ownershipService) Authorize(ctx context.Context, tx *gorm.DB, kind EntityKind, id uuid.UUID, callerUserID uuid.UUID) error {
	ownerID, err := os.ResolveOwnerUserID(ctx, tx, kind, id)
	if err != nil {
		return err
	}
	if ownerID != callerUserID {
		os.log.Warn("Ownership check rejected caller", "kind", string(kind), "entity_id", id, "caller_id", callerUserID)
		return apierr.New(http.StatusUnauthorized, "not_owner", fmt.Errorf("caller does not own this %s", kind))
	}
	return nil
}

// operationFailed is the shared storage-failure response. The real
// cause is logged where it happened; callers only see a generic 400.
func operationFailed() *apierr.Error {
	return apierr.New(http.StatusBadRequest, "operation_failed", fmt.Errorf("operation failed"))
}
