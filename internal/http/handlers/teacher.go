package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courseloop/courseloop-backend/internal/http/response"
	"github.com/courseloop/courseloop-backend/internal/services"
)

type TeacherHandler struct {
	teacherService services.TeacherService
}

func NewTeacherHandler(teacherService services.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// POST /api/teachers, opts the caller into course authoring.
func (th *TeacherHandler) CreateProfile(c *gin.Context) {
	teacher, err := th.teacherService.CreateProfile(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"teacher": teacher})
}
