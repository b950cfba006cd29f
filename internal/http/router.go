package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/courseloop/courseloop-backend/internal/http/handlers"
	httpMW "github.com/courseloop/courseloop-backend/internal/http/middleware"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler  *httpH.HealthHandler
	AuthHandler    *httpH.AuthHandler
	UserHandler    *httpH.UserHandler
	TeacherHandler *httpH.TeacherHandler
	SubjectHandler *httpH.SubjectHandler
	CourseHandler  *httpH.CourseHandler
	TopicHandler   *httpH.TopicHandler
	ContentHandler *httpH.ContentHandler

	ServiceName   string
	EnableTracing bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	if cfg.EnableTracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Public catalog
		if cfg.CourseHandler != nil {
			api.GET("/courses/public", cfg.CourseHandler.ListPublic)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Teacher profile
		if cfg.TeacherHandler != nil {
			protected.POST("/teachers", cfg.TeacherHandler.CreateProfile)
		}

		// Subjects
		if cfg.SubjectHandler != nil {
			protected.GET("/subjects", cfg.SubjectHandler.List)
		}

		// Course detail (any authenticated reader)
		if cfg.CourseHandler != nil {
			protected.GET("/courses/:id", cfg.CourseHandler.GetByID)
		}
	}

	teacherOnly := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			teacherOnly.Use(cfg.AuthMiddleware.RequireAuth())
			teacherOnly.Use(cfg.AuthMiddleware.RequireTeacher())
		}

		if cfg.CourseHandler != nil {
			teacherOnly.GET("/courses/all", cfg.CourseHandler.ListAll)
			teacherOnly.POST("/courses/create", cfg.CourseHandler.Create)
			teacherOnly.PUT("/courses/:id", cfg.CourseHandler.Update)
			teacherOnly.DELETE("/courses/:id", cfg.CourseHandler.Delete)
		}

		if cfg.TopicHandler != nil {
			teacherOnly.POST("/courses/:id/addTopic", cfg.TopicHandler.AddToCourse)
			teacherOnly.PUT("/courses/topic/:id", cfg.TopicHandler.Update)
			teacherOnly.DELETE("/courses/topic/:id", cfg.TopicHandler.Delete)
		}

		if cfg.ContentHandler != nil {
			teacherOnly.POST("/courses/:id/addContent", cfg.ContentHandler.AddToTopic)
			teacherOnly.GET("/courses/:id/content", cfg.ContentHandler.ListForTopic)
			teacherOnly.PUT("/courses/content/:id", cfg.ContentHandler.Update)
			teacherOnly.DELETE("/courses/content/:id", cfg.ContentHandler.Delete)
		}

		if cfg.SubjectHandler != nil {
			teacherOnly.POST("/subjects", cfg.SubjectHandler.Create)
		}
	}

	return r
}
