package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/data/repos/catalog"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

// TeacherService manages the teacher profile that unlocks course
// authoring. A user has at most one profile.
type TeacherService interface {
	CreateProfile(ctx context.Context) (*types.Teacher, error)
	GetProfileForUser(ctx context.Context, userID uuid.UUID) (*types.Teacher, error)
}

type teacherService struct {
	teacherRepo catalog.TeacherRepo
	log         *logger.Logger
}

func NewTeacherService(teacherRepo catalog.TeacherRepo, baseLog *logger.Logger) TeacherService {
	return &teacherService{
		teacherRepo: teacherRepo,
		log:         baseLog.With("service", "TeacherService"),
	}
}

func (ts *teacherService) CreateProfile(ctx context.Context) (*types.Teacher, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	exists, err := ts.teacherRepo.ExistsForUser(ctx, nil, rd.UserID)
	if err != nil {
		ts.log.Error("Failed to check for existing teacher profile", "user_id", rd.UserID, "error", err)
		return nil, operationFailed()
	}
	if exists {
		return nil, apierr.New(http.StatusBadRequest, "teacher_profile_exists", fmt.Errorf("a teacher profile already exists for this user"))
	}
	created, err := ts.teacherRepo.Create(ctx, nil, []*types.Teacher{{ID: uuid.New(), UserID: rd.UserID}})
	if err != nil {
		ts.log.Error("Failed to create teacher profile", "user_id", rd.UserID, "error", err)
		return nil, operationFailed()
	}
	ts.log.Info("Created teacher profile", "user_id", rd.UserID, "teacher_id", created[0].ID)
	return created[0], nil
}

// GetProfileForUser loads a profile by owning user. The teacher gate
// in the middleware chain uses this to resolve the caller's teacher id.
func (ts *teacherService) GetProfileForUser(ctx context.Context, userID uuid.UUID) (*types.Teacher, error) {
	teachers, err := ts.teacherRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		ts.log.Error("Failed to load teacher profile", "user_id", userID, "error", err)
		return nil, operationFailed()
	}
	if len(teachers) == 0 {
		return nil, apierr.New(http.StatusNotFound, "teacher_not_found", fmt.Errorf("no teacher profile for this user"))
	}
	return teachers[0], nil
}
