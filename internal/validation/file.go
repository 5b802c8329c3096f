package validation

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// ValidateUploadSize checks an upload against the configured size limit
func ValidateUploadSize(size, maxSize int64) error {
	if size <= 0 {
		return fmt.Errorf("file is empty")
	}

	if size > maxSize {
		maxMB := maxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}

	return nil
}

// DetectContentType returns the MIME type of an uploaded file.
// The client supplied Content-Type wins unless it is missing or generic;
// then the extension is consulted, then the magic numbers.
func DetectContentType(header *multipart.FileHeader) (string, error) {
	declared := header.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" {
		return declared, nil
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename))); byExt != "" {
		return byExt, nil
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType reads max 512 bytes to determine MIME type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return http.DetectContentType(buffer[:n]), nil
}

// SanitizeFilename strips directories from a client supplied file name so it
// cannot escape its storage prefix.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimSpace(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
