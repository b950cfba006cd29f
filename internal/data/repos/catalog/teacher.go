package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
)

type TeacherRepo interface {
	Create(ctx context.Context, tx *gorm.DB, teachers []*types.Teacher) ([]*types.Teacher, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, teacherIDs []uuid.UUID) ([]*types.Teacher, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Teacher, error)
	ExistsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error)
}

type teacherRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeacherRepo(db *gorm.DB, baseLog *logger.Logger) TeacherRepo {
	repoLog := baseLog.With("repo", "TeacherRepo")
	return &teacherRepo{db: db, log: repoLog}
}

func (tr *teacherRepo) Create(ctx context.Context, tx *gorm.DB, teachers []*types.Teacher) ([]*types.Teacher, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(teachers) == 0 {
		return []*types.Teacher{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&teachers).Error; err != nil {
		return nil, err
	}
	return teachers, nil
}

func (tr *teacherRepo) GetByIDs(ctx context.Context, tx *gorm.DB, teacherIDs []uuid.UUID) ([]*types.Teacher, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Teacher
	if len(teacherIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", teacherIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *teacherRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Teacher, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Teacher
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *teacherRepo) ExistsForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Teacher{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
