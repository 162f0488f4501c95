package middleware

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const CtxCoverURLKey = "cover_url"

// CoverUpload resolves the optional "coverUrl" form file to a stored path
// and leaves it in the context for the handler. Only image files are
// accepted, capped at maxSize bytes. No file at all is fine.
func CoverUpload(uploadDir string, maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("coverUrl")
		if err != nil {
			// No upload - review posts without covers are valid
			c.Next()
			return
		}

		if file.Size > maxSize {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cover image exceeds the size limit"})
			return
		}

		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
			return
		}

		ext := filepath.Ext(file.Filename)
		base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
		stored := fmt.Sprintf("%s-%d%s", base, time.Now().UnixMilli(), ext)

		if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, stored)); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store cover image"})
			return
		}

		c.Set(CtxCoverURLKey, "/uploads/"+stored)
		c.Next()
	}
}
