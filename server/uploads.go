package server

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/formkit/errors"
	"github.com/kbukum/formkit/storage"
)

// StaticUploadsPath is the catch-all pattern served by StaticUploads.
const StaticUploadsPath = "/*filename"

// StaticUploads returns a handler streaming stored files by the filename
// path parameter. Missing files give a NOT_FOUND error body.
func StaticUploads(store storage.Downloader) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := strings.TrimPrefix(c.Param("filename"), "/")
		if filename == "" {
			RespondWithError(c, apperrors.NotFound("file", ""))
			return
		}

		rc, err := store.Download(c.Request.Context(), filename)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				RespondWithError(c, apperrors.NotFound("file", filename))
				return
			}
			RespondWithError(c, apperrors.Internal(err))
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(path.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
			"X-Content-Type-Options": "nosniff",
		})
	}
}

// RegisterStaticUploads serves store under prefix (e.g. "/uploads") as the
// static_upload route.
func RegisterStaticUploads(s *Server, prefix string, store storage.Downloader) {
	s.GET(storage.StaticUploadEndpoint, strings.TrimRight(prefix, "/")+StaticUploadsPath, StaticUploads(store))
}
