package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/normalization"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

// SubjectService manages the shared subject tags courses point at.
// Names are normalized to lowercase so "Math" and "math" are the same
// subject.
type SubjectService interface {
	List(ctx context.Context) ([]*types.Subject, error)
	Create(ctx context.Context, name string) (*types.Subject, error)
}

type subjectService struct {
	subjectRepo catalog.SubjectRepo
	log         *logger.Logger
}

func NewSubjectService(subjectRepo catalog.SubjectRepo, baseLog *logger.Logger) SubjectService {
	return &subjectService{
		subjectRepo: subjectRepo,
		log:         baseLog.With("service", "SubjectService"),
	}
}

func (ss *subjectService) List(ctx context.Context) ([]*types.Subject, error) {
	subjects, err := ss.subjectRepo.List(ctx, nil)
	if err != nil {
		ss.log.Error("Failed to list subjects", "error", err)
		return nil, operationFailed()
	}
	return subjects, nil
}

func (ss *subjectService) Create(ctx context.Context, name string) (*types.Subject, error) {
	name = normalization.ParseInputString(name)
	if name == "" {
		return nil, apierr.New(http.StatusBadRequest, "name_required", fmt.Errorf("a subject name is required"))
	}
	existing, err := ss.subjectRepo.GetByNames(ctx, nil, []string{name})
	if err != nil {
		ss.log.Error("Failed to check for existing subject", "error", err)
		return nil, operationFailed()
	}
	if len(existing) > 0 {
		return nil, apierr.New(http.StatusBadRequest, "subject_exists", fmt.Errorf("subject %q already exists", name))
	}
	created, err := ss.subjectRepo.Create(ctx, nil, []*types.Subject{{ID: uuid.New(), Name: name}})
	if err != nil {
		ss.log.Error("Failed to create subject", "error", err)
		return nil, operationFailed()
	}
	ss.log.Info("Created subject", "subject_id", created[0].ID)
	return created[0], nil
}
