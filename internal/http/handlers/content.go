package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/courseloop/courseloop-backend/internal/http/response"
	"github.com/courseloop/courseloop-backend/internal/services"
)

type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// POST /api/courses/:id/addContent (id = topic)
func (h *ContentHandler) AddToTopic(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_topic_id", err)
		return
	}
	var req struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	content, err := h.contentService.AddToTopic(c.Request.Context(), topicID, req.Type, req.Data)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"content": content})
}

// GET /api/courses/:id/content (id = topic)
func (h *ContentHandler) ListForTopic(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_topic_id", err)
		return
	}
	contents, err := h.contentService.ListByTopic(c.Request.Context(), topicID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contents": contents})
}

// PUT /api/courses/content/:id
func (h *ContentHandler) Update(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_content_id", err)
		return
	}
	var req struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	content, err := h.contentService.Update(c.Request.Context(), contentID, req.Type, req.Data)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"content": content})
}

// DELETE /api/courses/content/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_content_id", err)
		return
	}
	if err := h.contentService.Delete(c.Request.Context(), contentID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "message": "content deleted"})
}
