package handler

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/distributor/backend/internal/infrastructure/storage"
	"github.com/distributor/backend/internal/interfaces/http/dto"
)

// FileHandler streams stored attachments from the file storage.
type FileHandler struct {
	BaseHandler
	files storage.FileStorage
}

// NewFileHandler creates a handler serving files.
func NewFileHandler(files storage.FileStorage) *FileHandler {
	return &FileHandler{files: files}
}

// Serve answers GET {publicPath}/*key. The route must name the wildcard
// "key".
func (h *FileHandler) Serve(c *gin.Context) {
	key, err := storage.CleanKey(strings.TrimPrefix(c.Param("key"), "/"))
	if err != nil {
		h.Error(c, dto.ErrCodeNotFound, "File not found")
		return
	}

	body, err := h.files.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.Error(c, dto.ErrCodeNotFound, "File not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Cache-Control": "private, max-age=3600",
	})
}
