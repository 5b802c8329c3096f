package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/jamspace/jamspace/internal/ctxkeys"
	"github.com/jamspace/jamspace/internal/service"
	"github.com/jamspace/jamspace/internal/validation"
)

// multipartOverhead is the room left for form boundaries and headers
const multipartOverhead = 1 << 20

type fileHandler struct {
	fileService   *service.FileService
	maxUploadSize int64
}

func NewFileHandler(fileService *service.FileService, maxUploadSize int64) *fileHandler {
	return &fileHandler{
		fileService:   fileService,
		maxUploadSize: maxUploadSize,
	}
}

func (h *fileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	projectID := r.PathValue("projectId")

	err := h.fileService.CheckAccess(r.Context(), user, projectID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	err = r.ParseMultipartForm(32 << 20)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			maxMB := h.maxUploadSize / (1 << 20)
			handleError(w, r, &service.ValidationError{Message: fmt.Sprintf("file too large: maximum size is %d MB", maxMB)})
			return
		}
		handleError(w, r, &service.ValidationError{Message: "No file provided"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	upload, file, err := formUpload(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if file != nil {
		defer func() { _ = file.Close() }()
	}

	attachment, err := h.fileService.Attach(r.Context(), user, projectID, upload)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, attachment)
}

// formUpload returns the "file" part of the form, or nil when it is absent.
// The caller closes the returned file.
func formUpload(r *http.Request) (*service.Upload, multipart.File, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType, err := validation.DetectContentType(header)
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("failed to detect content type: %w", err)
	}

	return &service.Upload{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Body:        file,
	}, file, nil
}
