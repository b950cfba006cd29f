package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
)

type ContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contents []*types.Content) ([]*types.Content, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.Content, error)
	GetByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Content, error)
	Update(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, contentType, data string) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) error
	SoftDeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	repoLog := baseLog.With("repo", "ContentRepo")
	return &contentRepo{db: db, log: repoLog}
}

func (r *contentRepo) Create(ctx context.Context, tx *gorm.DB, contents []*types.Content) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(contents) == 0 {
		return []*types.Content{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (r *contentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Content
	if len(contentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) GetByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Content, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Content
	if len(topicIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("topic_id IN ?", topicIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) Update(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, contentType, data string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Content{}).
		Where("id = ?", contentID).
		Updates(map[string]any{
			"type": contentType,
			"data": data,
		}).Error
}

func (r *contentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, contentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(contentIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", contentIDs).
		Delete(&types.Content{}).Error
}

func (r *contentRepo) SoftDeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(topicIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("topic_id IN ?", topicIDs).
		Delete(&types.Content{}).Error
}
