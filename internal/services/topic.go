package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-backend/internal/clients/redis"
	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/normalization"
	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

// TopicService manages the topics inside a course. Every mutation
// checks that the target exists before checking who owns it.
type TopicService interface {
	AddToCourse(ctx context.Context, courseID uuid.UUID, title string) (*types.Topic, error)
	UpdateTitle(ctx context.Context, topicID uuid.UUID, title string) (*types.Topic, error)
	Delete(ctx context.Context, topicID uuid.UUID) error
}

type topicService struct {
	db          *gorm.DB
	topicRepo   catalog.TopicRepo
	contentRepo catalog.ContentRepo
	ownership   OwnershipService
	cache       redis.CatalogCache
	log         *logger.Logger
}

func NewTopicService(
	db *gorm.DB,
	topicRepo catalog.TopicRepo,
	contentRepo catalog.ContentRepo,
	ownership OwnershipService,
	cache redis.CatalogCache,
	baseLog *logger.Logger,
) TopicService {
	return &topicService{
		db:          db,
		topicRepo:   topicRepo,
		contentRepo: contentRepo,
		ownership:   ownership,
		cache:       cache,
		log:         baseLog.With("service", "TopicService"),
	}
}

func (ts *topicService) AddToCourse(ctx context.Context, courseID uuid.UUID, title string) (*types.Topic, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	title = normalization.TrimInput(title)
	if title == "" {
		return nil, apierr.New(http.StatusBadRequest, "title_required", fmt.Errorf("a topic title is required"))
	}
	if err := ts.ownership.Authorize(ctx, nil, KindCourse, courseID, rd.UserID); err != nil {
		return nil, err
	}
	created, err := ts.topicRepo.Create(ctx, nil, []*types.Topic{{ID: uuid.New(), CourseID: courseID, Title: title}})
	if err != nil {
		ts.log.Error("Failed to create topic", "course_id", courseID, "error", err)
		return nil, operationFailed()
	}
	ts.invalidateCatalog(ctx)
	ts.log.Info("Added topic", "topic_id", created[0].ID, "course_id", courseID)
	return created[0], nil
}

func (ts *topicService) UpdateTitle(ctx context.Context, topicID uuid.UUID, title string) (*types.Topic, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	title = normalization.TrimInput(title)
	if title == "" {
		return nil, apierr.New(http.StatusBadRequest, "title_required", fmt.Errorf("a topic title is required"))
	}
	if err := ts.ownership.Authorize(ctx, nil, KindTopic, topicID, rd.UserID); err != nil {
		return nil, err
	}
	if err := ts.topicRepo.UpdateTitle(ctx, nil, topicID, title); err != nil {
		ts.log.Error("Failed to update topic", "topic_id", topicID, "error", err)
		return nil, operationFailed()
	}
	ts.invalidateCatalog(ctx)

	topics, err := ts.topicRepo.GetByIDs(ctx, nil, []uuid.UUID{topicID})
	if err != nil || len(topics) == 0 {
		ts.log.Error("Failed to reload updated topic", "topic_id", topicID, "error", err)
		return nil, operationFailed()
	}
	ts.log.Info("Updated topic", "topic_id", topicID)
	return topics[0], nil
}

// Delete removes the topic and its contents in one transaction.
func (ts *topicService) Delete(ctx context.Context, topicID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	if err := ts.ownership.Authorize(ctx, nil, KindTopic, topicID, rd.UserID); err != nil {
		return err
	}
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.contentRepo.SoftDeleteByTopicIDs(ctx, tx, []uuid.UUID{topicID}); err != nil {
			return err
		}
		return ts.topicRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{topicID})
	})
	if err != nil {
		ts.log.Error("Failed to delete topic", "topic_id", topicID, "error", err)
		return operationFailed()
	}
	ts.invalidateCatalog(ctx)
	ts.log.Info("Deleted topic", "topic_id", topicID)
	return nil
}

func (ts *topicService) invalidateCatalog(ctx context.Context) {
	if ts.cache != nil {
		ts.cache.InvalidatePublicCourses(ctx)
	}
}
