package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/clients/redis"
	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/normalization"
	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

// ContentService manages the content items of a topic. Type is a
// closed enumeration; Data stays opaque to the server.
type ContentService interface {
	AddToTopic(ctx context.Context, topicID uuid.UUID, contentType, data string) (*types.Content, error)
	Update(ctx context.Context, contentID uuid.UUID, contentType, data string) (*types.Content, error)
	Delete(ctx context.Context, contentID uuid.UUID) error
	ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*types.Content, error)
}

type contentService struct {
	contentRepo catalog.ContentRepo
	topicRepo   catalog.TopicRepo
	ownership   OwnershipService
	cache       redis.CatalogCache
	log         *logger.Logger
}

func NewContentService(
	contentRepo catalog.ContentRepo,
	topicRepo catalog.TopicRepo,
	ownership OwnershipService,
	cache redis.CatalogCache,
	baseLog *logger.Logger,
) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		topicRepo:   topicRepo,
		ownership:   ownership,
		cache:       cache,
		log:         baseLog.With("service", "ContentService"),
	}
}

func (cs *contentService) AddToTopic(ctx context.Context, topicID uuid.UUID, contentType, data string) (*types.Content, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	contentType, data, err := validateContentFields(contentType, data)
	if err != nil {
		return nil, err
	}
	if err := cs.ownership.Authorize(ctx, nil, KindTopic, topicID, rd.UserID); err != nil {
		return nil, err
	}
	created, err := cs.contentRepo.Create(ctx, nil, []*types.Content{{
		ID:      uuid.New(),
		TopicID: topicID,
		Type:    contentType,
		Data:    data,
	}})
	if err != nil {
		cs.log.Error("Failed to create content", "topic_id", topicID, "error", err)
		return nil, operationFailed()
	}
	cs.invalidateCatalog(ctx)
	cs.log.Info("Added content", "content_id", created[0].ID, "topic_id", topicID)
	return created[0], nil
}

func (cs *contentService) Update(ctx context.Context, contentID uuid.UUID, contentType, data string) (*types.Content, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	contentType, data, err := validateContentFields(contentType, data)
	if err != nil {
		return nil, err
	}
	if err := cs.ownership.Authorize(ctx, nil, KindContent, contentID, rd.UserID); err != nil {
		return nil, err
	}
	if err := cs.contentRepo.Update(ctx, nil, contentID, contentType, data); err != nil {
		cs.log.Error("Failed to update content", "content_id", contentID, "error", err)
		return nil, operationFailed()
	}
	cs.invalidateCatalog(ctx)

	contents, err := cs.contentRepo.GetByIDs(ctx, nil, []uuid.UUID{contentID})
	if err != nil || len(contents) == 0 {
		cs.log.Error("Failed to reload updated content", "content_id", contentID, "error", err)
		return nil, operationFailed()
	}
	cs.log.Info("Updated content", "content_id", contentID)
	return contents[0], nil
}

func (cs *contentService) Delete(ctx context.Context, contentID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	if err := cs.ownership.Authorize(ctx, nil, KindContent, contentID, rd.UserID); err != nil {
		return err
	}
	if err := cs.contentRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{contentID}); err != nil {
		cs.log.Error("Failed to delete content", "content_id", contentID, "error", err)
		return operationFailed()
	}
	cs.invalidateCatalog(ctx)
	cs.log.Info("Deleted content", "content_id", contentID)
	return nil
}

// ListByTopic returns a topic's contents. The topic must exist but no
// ownership is required, any authenticated teacher may read.
func (cs *contentService) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*types.Content, error) {
	topics, err := cs.topicRepo.GetByIDs(ctx, nil, []uuid.UUID{topicID})
	if err != nil {
		cs.log.Error("Failed to load topic", "topic_id", topicID, "error", err)
		return nil, operationFailed()
	}
	if len(topics) == 0 {
		return nil, apierr.New(http.StatusNotFound, "topic_not_found", fmt.Errorf("topic not found"))
	}
	contents, err := cs.contentRepo.GetByTopicIDs(ctx, nil, []uuid.UUID{topicID})
	if err != nil {
		cs.log.Error("Failed to list contents", "topic_id", topicID, "error", err)
		return nil, operationFailed()
	}
	return contents, nil
}

func (cs *contentService) invalidateCatalog(ctx context.Context) {
	if cs.cache != nil {
		cs.cache.InvalidatePublicCourses(ctx)
	}
}

// validateContentFields trims both fields and checks the type against
// the closed enumeration. The type comparison is case-insensitive on
// input but the stored value is always uppercase.
func validateContentFields(contentType, data string) (string, string, error) {
	contentType = strings.ToUpper(normalization.TrimInput(contentType))
	data = normalization.TrimInput(data)
	if contentType == "" {
		return "", "", apierr.New(http.StatusBadRequest, "type_required", fmt.Errorf("a content type is required"))
	}
	if data == "" {
		return "", "", apierr.New(http.StatusBadRequest, "data_required", fmt.Errorf("content data is required"))
	}
	if !types.ValidContentType(contentType) {
		return "", "", apierr.New(http.StatusBadRequest, "invalid_content_type", fmt.Errorf("content type %q is not supported", contentType))
	}
	return contentType, data, nil
}
