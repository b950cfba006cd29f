package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/data/repos/user"
	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/apierr"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	userRepo user.UserRepo
	log      *logger.Logger
}

func NewUserService(userRepo user.UserRepo, baseLog *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      baseLog.With("service", "UserService"),
	}
}

// GetMe returns the authenticated user with the teacher profile
// preloaded when one exists.
func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("authentication is required"))
	}
	users, err := us.userRepo.GetWithTeacherByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		us.log.Error("Failed to load user", "user_id", rd.UserID, "error", err)
		return nil, operationFailed()
	}
	if len(users) == 0 {
		return nil, apierr.New(http.StatusNotFound, "user_not_found", fmt.Errorf("user not found"))
	}
	return users[0], nil
}
