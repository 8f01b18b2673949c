// file: internals/helpers/upload.go
package helper

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

/* ===============================
   Upload validation
=================================*/

// Allowed document extensions for file-bearing resources.
var DocumentExtensions = []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png"}

const (
	MaxReportCardSize   = 10 << 20 // 10 MB
	MaxScheduleFileSize = 15 << 20 // 15 MB
)

// CheckUpload validates a multipart file against the extension allow-list
// and size cap. Rejections name what is allowed so the caller can act.
func CheckUpload(fh *multipart.FileHeader, allowedExts []string, maxBytes int64) error {
	if fh == nil {
		return ErrValidation("file is required")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	ok := false
	for _, a := range allowedExts {
		if ext == a {
			ok = true
			break
		}
	}
	if !ok {
		return ErrValidation(fmt.Sprintf(
			"file extension %q not allowed; allowed: %s",
			ext, strings.Join(allowedExts, ", ")))
	}
	if fh.Size > maxBytes {
		return ErrValidation(fmt.Sprintf(
			"file exceeds the maximum size of %d MB", maxBytes>>20))
	}
	return nil
}
