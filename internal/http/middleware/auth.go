package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/pkg/ctxutil"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/services"
)

type AuthMiddleware struct {
	log            *logger.Logger
	authService    services.AuthService
	teacherService services.TeacherService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, teacherService services.TeacherService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{
		log:            middlewareLogger,
		authService:    authService,
		teacherService: teacherService,
	}
}

// RequireAuth resolves the caller identity from the access token and
// attaches it to the request context. Handlers behind it can assume a
// non-nil RequestData with a valid UserID.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			abortError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		c.Request = c.Request.WithContext(ctx)
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			abortError(c, http.StatusForbidden, "forbidden", "forbidden")
			return
		}
		c.Next()
	}
}

// RequireTeacher gates authoring routes. It loads the caller's teacher
// profile and records its id on the request data; callers without a
// profile are rejected before the handler runs. Must sit behind
// RequireAuth.
func (am *AuthMiddleware) RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			abortError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		teacher, err := am.teacherService.GetProfileForUser(ctx, rd.UserID)
		if err != nil {
			am.log.Debug("Rejected non-teacher caller", "user_id", rd.UserID)
			abortError(c, http.StatusUnauthorized, "teacher_required", "a teacher profile is required")
			return
		}
		rd.TeacherID = teacher.ID
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(ctx, rd))
		c.Next()
	}
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"message": message, "code": code},
	})
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
