package model

import (
	"time"
)

// FileAttachment is the metadata of an uploaded file, embedded in Project.Files.
type FileAttachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"` // MIME type
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
	Path       string    `json:"path"` // storage key: <projectId>/<fileId>-<name>
	SignedURL  string    `json:"signedUrl"`
}
