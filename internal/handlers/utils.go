package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kapitar/aiatl-micdrop/pkg/Logger"
)

// OptionalFormFile normalizes an optional multipart upload once, at
// the boundary. Clients may send the field as a real file, an empty
// string, or not at all; anything but a named file counts as absent.
func OptionalFormFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Filename == "" {
		return nil, false
	}
	return fh, true
}

// NormalizeLanguage maps the client's language_code field to what the
// transcriber expects: empty or the literal "none" means auto-detect.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if strings.EqualFold(code, "none") {
		return ""
	}
	return code
}

// SaveScratch persists an upload under a unique name in the scratch
// dir. Callers must remove the file on every exit path.
func SaveScratch(c *gin.Context, fh *multipart.FileHeader, dir, prefix string) (string, error) {
	name := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), filepath.Ext(fh.Filename))
	path := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return path, nil
}

// RemoveScratch deletes a scratch file; a deletion failure is logged
// only so it can't mask the request's primary outcome.
func RemoveScratch(logger *Logger.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("failed to remove scratch file %s: %v", path, err)
	}
}
