package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jfloyd10/gofit/internal/service"
)

// MediaHandler holds the media service dependency.
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type RequestUploadURLRequest struct {
	Kind        string `json:"kind" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// RequestUploadURL handles POST /media/upload-url. The client uploads
// directly to object storage with the returned presigned PUT URL and
// then stores the object key on the program or exercise it belongs to.
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.mediaService.RequestUploadURL(c.Request.Context(), userID, service.MediaKind(req.Kind), req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaKindInvalid), errors.Is(err, service.ErrMediaContentType):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to get upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadURL handles GET /media/download-url?key=...
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		abortWithError(c, http.StatusBadRequest, "key query parameter is required")
		return
	}

	downloadURL, err := h.mediaService.DownloadURL(c.Request.Context(), objectKey)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get download URL.")
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: downloadURL})
}

// DeleteObject handles DELETE /media?key=...
func (h *MediaHandler) DeleteObject(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	objectKey := c.Query("key")
	if objectKey == "" {
		abortWithError(c, http.StatusBadRequest, "key query parameter is required")
		return
	}

	if err := h.mediaService.DeleteObject(c.Request.Context(), userID, objectKey); err != nil {
		if errors.Is(err, service.ErrMediaKeyNotOwned) {
			abortWithError(c, http.StatusForbidden, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete object.")
		return
	}
	c.Status(http.StatusNoContent)
}
