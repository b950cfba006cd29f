package app

import (
	"github.com/gin-gonic/gin"

	"github.com/courseloop/courseloop-backend/internal/http"
	httpH "github.com/courseloop/courseloop-backend/internal/http/handlers"
	httpMW "github.com/courseloop/courseloop-backend/internal/http/middleware"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Teacher *httpH.TeacherHandler
	Subject *httpH.SubjectHandler
	Course  *httpH.CourseHandler
	Topic   *httpH.TopicHandler
	Content *httpH.ContentHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Auth:    httpH.NewAuthHandler(services.Auth),
		User:    httpH.NewUserHandler(services.User),
		Teacher: httpH.NewTeacherHandler(services.Teacher),
		Subject: httpH.NewSubjectHandler(services.Subject),
		Course:  httpH.NewCourseHandler(log, services.Course),
		Topic:   httpH.NewTopicHandler(services.Topic),
		Content: httpH.NewContentHandler(services.Content),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth, services.Teacher),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.Auth,

		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		UserHandler:    handlers.User,
		TeacherHandler: handlers.Teacher,
		SubjectHandler: handlers.Subject,
		CourseHandler:  handlers.Course,
		TopicHandler:   handlers.Topic,
		ContentHandler: handlers.Content,

		ServiceName:   cfg.ServiceName,
		EnableTracing: cfg.EnableTracing,
	})
}
