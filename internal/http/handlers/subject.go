package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseloop/courseloop-backend/internal/http/response"
	"github.com/courseloop/courseloop-backend/internal/services"
)

type SubjectHandler struct {
	subjectService services.SubjectService
}

func NewSubjectHandler(subjectService services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// GET /api/subjects
func (sh *SubjectHandler) List(c *gin.Context) {
	subjects, err := sh.subjectService.List(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subjects": subjects})
}

// POST /api/subjects
func (sh *SubjectHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	subject, err := sh.subjectService.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"subject": subject})
}
