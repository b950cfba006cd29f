package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/services"
)

type Services struct {
	Avatar services.AvatarService
	Auth   services.AuthService

	Ownership services.OwnershipService
	Course    services.CourseService
	Topic     services.TopicService
	Content   services.ContentService
	Subject   services.SubjectService
	Teacher   services.TeacherService
	User      services.UserService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	avatarService, err := services.NewAvatarService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}
	authService, err := services.NewAuthService(db, repos.User, repos.UserToken, avatarService, log)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	ownership := services.NewOwnershipService(repos.Course, repos.Topic, repos.Content, repos.Teacher, log)
	courseService := services.NewCourseService(
		db,
		repos.Course,
		repos.Topic,
		repos.Content,
		repos.Enrollment,
		repos.Quiz,
		repos.Exam,
		repos.Teacher,
		repos.Subject,
		ownership,
		clients.CatalogCache,
		log,
	)
	topicService := services.NewTopicService(db, repos.Topic, repos.Content, ownership, clients.CatalogCache, log)
	contentService := services.NewContentService(repos.Content, repos.Topic, ownership, clients.CatalogCache, log)

	return Services{
		Avatar: avatarService,
		Auth:   authService,

		Ownership: ownership,
		Course:    courseService,
		Topic:     topicService,
		Content:   contentService,
		Subject:   services.NewSubjectService(repos.Subject, log),
		Teacher:   services.NewTeacherService(repos.Teacher, log),
		User:      services.NewUserService(repos.User, log),
	}, nil
}
