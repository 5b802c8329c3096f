package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/repository"
	"github.com/jamspace/jamspace/internal/storage"
	"github.com/jamspace/jamspace/internal/validation"
)

type FileService struct {
	projectRepo     repository.ProjectRepository
	storage         storage.Storage
	signedURLExpiry time.Duration
	maxUploadSize   int64
}

func NewFileService(
	projectRepo repository.ProjectRepository,
	storage storage.Storage,
	signedURLExpiry time.Duration,
	maxUploadSize int64,
) *FileService {
	return &FileService{
		projectRepo:     projectRepo,
		storage:         storage,
		signedURLExpiry: signedURLExpiry,
		maxUploadSize:   maxUploadSize,
	}
}

// Upload is a file received from a client
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// CheckAccess reports whether user may attach files to the project, so
// callers can refuse before reading an upload body.
func (s *FileService) CheckAccess(ctx context.Context, user *model.User, projectID string) error {
	_, err := s.authorize(ctx, user, projectID)
	return err
}

func (s *FileService) authorize(ctx context.Context, user *model.User, projectID string) (*model.Project, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	project, err := s.projectRepo.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsCollaborator(user.ID) {
		return nil, ErrForbidden
	}
	return project, nil
}

// Attach uploads a file to the object store and appends its metadata to the
// project. Only collaborators may attach files; a nil upload means the
// request carried no file.
func (s *FileService) Attach(ctx context.Context, user *model.User, projectID string, upload *Upload) (*model.FileAttachment, error) {
	project, err := s.authorize(ctx, user, projectID)
	if err != nil {
		return nil, err
	}

	if upload == nil {
		return nil, invalid("No file provided")
	}
	err = validation.ValidateUploadSize(upload.Size, s.maxUploadSize)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	name := validation.SanitizeFilename(upload.Name)
	if name == "" {
		return nil, invalid("file name is required")
	}

	fileID := uuid.New().String()
	storagePath := fmt.Sprintf("%s/%s-%s", projectID, fileID, name)

	err = s.storage.Save(ctx, storagePath, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		slog.Error("failed to store file", "error", err, "project_id", projectID, "path", storagePath)
		return nil, ErrUploadFailed
	}

	signedURL, err := s.storage.SignedURL(ctx, storagePath, s.signedURLExpiry)
	if err != nil {
		s.cleanup(ctx, storagePath)
		slog.Error("failed to sign file url", "error", err, "path", storagePath)
		return nil, ErrUploadFailed
	}

	attachment := model.FileAttachment{
		ID:         fileID,
		Name:       name,
		Size:       upload.Size,
		Type:       upload.ContentType,
		UploadedBy: user.ID,
		UploadedAt: time.Now().UTC(),
		Path:       storagePath,
		SignedURL:  signedURL,
	}

	project.Files = append(project.Files, attachment)

	err = s.projectRepo.Save(ctx, project)
	if err != nil {
		s.cleanup(ctx, storagePath)
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	slog.Info("file attached", "project_id", projectID, "file_id", fileID, "size", upload.Size)
	return &attachment, nil
}

// cleanup removes an object whose metadata never made it into the project.
func (s *FileService) cleanup(ctx context.Context, path string) {
	delErr := s.storage.Delete(context.WithoutCancel(ctx), path)
	if delErr != nil {
		slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", path)
	}
}
