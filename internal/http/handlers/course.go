package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/http/response"
	"github.com/courseloop/courseloop-backend/internal/normalization"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/pkg/pointers"
	"github.com/courseloop/courseloop-backend/internal/services"
)

// maxImageBytes caps course image uploads. The image is stored inline
// as a base64 column, so the cap also bounds row size.
const maxImageBytes = 10 << 20

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

// GET /api/courses/all
func (h *CourseHandler) ListAll(c *gin.Context) {
	courses, err := h.courseService.ListAll(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/public
func (h *CourseHandler) ListPublic(c *gin.Context) {
	courses, err := h.courseService.ListPublic(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/:id
func (h *CourseHandler) GetByID(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	course, err := h.courseService.GetDetail(c.Request.Context(), courseID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /api/courses/create (multipart: title, description, isPublic,
// subjectId + required file field "image")
func (h *CourseHandler) Create(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxImageBytes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	form := c.Request.MultipartForm

	input := &services.CreateCourseInput{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		IsPublic:    normalization.ParseBoolFlag(formValue(form, "isPublic")),
		SubjectID:   formValue(form, "subjectId"),
	}
	if fh := formFile(form, "image"); fh != nil {
		raw, contentType, err := readImageFile(fh)
		if err != nil {
			h.log.Warn("Rejected course image upload", "error", err)
			response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
			return
		}
		input.Image = raw
		input.ImageType = contentType
	}

	course, err := h.courseService.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// PUT /api/courses/:id (multipart; image replaced only when supplied)
func (h *CourseHandler) Update(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	if err := c.Request.ParseMultipartForm(maxImageBytes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	form := c.Request.MultipartForm

	input := &services.UpdateCourseInput{CourseID: courseID}
	if hasFormValue(form, "title") {
		input.Title = pointers.Ptr(formValue(form, "title"))
	}
	if hasFormValue(form, "description") {
		input.Description = pointers.Ptr(formValue(form, "description"))
	}
	if hasFormValue(form, "isPublic") {
		input.IsPublic = pointers.Ptr(normalization.ParseBoolFlag(formValue(form, "isPublic")))
	}
	if hasFormValue(form, "subjectId") {
		input.SubjectID = pointers.Ptr(formValue(form, "subjectId"))
	}
	if fh := formFile(form, "image"); fh != nil {
		raw, contentType, err := readImageFile(fh)
		if err != nil {
			h.log.Warn("Rejected course image upload", "error", err)
			response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
			return
		}
		input.Image = raw
		input.ImageType = contentType
	}

	course, err := h.courseService.Update(c.Request.Context(), input)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	if err := h.courseService.Delete(c.Request.Context(), courseID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "message": "course deleted"})
}

// ---- multipart helpers ----

func formValue(form *multipart.Form, key string) string {
	if form == nil {
		return ""
	}
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func hasFormValue(form *multipart.Form, key string) bool {
	if form == nil {
		return false
	}
	_, ok := form.Value[key]
	return ok
}

func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	if fhs := form.File[key]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

// readImageFile loads the upload fully into memory; the service
// re-encodes it base64 for the image column.
func readImageFile(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return raw, fh.Header.Get("Content-Type"), nil
}
