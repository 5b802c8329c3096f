package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/repository"
	"github.com/jamspace/jamspace/internal/storage"
)

var (
	collaboratorFields = []string{"status", "progress", "description", "deadline"}
	ownerFields        = append(slices.Clone(collaboratorFields), "title", "genre", "collaborators")
)

type ProjectService struct {
	projectRepo     repository.ProjectRepository
	profileService  *ProfileService
	storage         storage.Storage
	signedURLExpiry time.Duration
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	profileService *ProfileService,
	storage storage.Storage,
	signedURLExpiry time.Duration,
) *ProjectService {
	return &ProjectService{
		projectRepo:     projectRepo,
		profileService:  profileService,
		storage:         storage,
		signedURLExpiry: signedURLExpiry,
	}
}

type NewProject struct {
	Title       string
	Description string
	Genre       string
	Deadline    string
}

// Create stores a new project owned by user and records it on the owner's
// profile. The profile write is best-effort.
func (s *ProjectService) Create(ctx context.Context, user *model.User, in NewProject) (*model.Project, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}

	name := user.Metadata.Name
	if name == "" {
		name = "Unknown"
	}
	role := user.Metadata.Role
	if role == "" {
		role = "Owner"
	}

	project := &model.Project{
		ID:          uuid.New().String(),
		Title:       title,
		Description: in.Description,
		Genre:       in.Genre,
		Deadline:    in.Deadline,
		OwnerID:     user.ID,
		Status:      model.ProjectStatusPlanning,
		Progress:    0,
		Collaborators: []model.Collaborator{
			{ID: user.ID, Name: name, Role: role, Avatar: ""},
		},
		Files:     []model.FileAttachment{},
		Messages:  []any{},
		CreatedAt: time.Now().UTC(),
	}

	err := s.projectRepo.Save(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	err = s.profileService.AddProjectSummary(ctx, user.ID, project.Summary())
	if err != nil {
		slog.Error("failed to add project to profile", "error", err, "user_id", user.ID, "project_id", project.ID)
	}

	slog.Info("project created", "project_id", project.ID, "owner_id", user.ID)
	return project, nil
}

func (s *ProjectService) ByID(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.projectRepo.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.refreshSignedURLs(ctx, project)
	return project, nil
}

// ListByUser returns every project userID owns or collaborates on, in scan order.
func (s *ProjectService) ListByUser(ctx context.Context, userID string) ([]*model.Project, error) {
	projects, err := s.projectRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan projects: %w", err)
	}

	result := make([]*model.Project, 0)
	for _, p := range projects {
		if !p.HasParticipant(userID) {
			continue
		}
		s.refreshSignedURLs(ctx, p)
		result = append(result, p)
	}
	return result, nil
}

// Update applies patch to a project the caller participates in. Which
// top-level fields may appear in patch depends on whether the caller owns
// the project.
func (s *ProjectService) Update(ctx context.Context, user *model.User, projectID string, patch json.RawMessage) (*model.Project, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	project, err := s.projectRepo.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.HasParticipant(user.ID) {
		return nil, ErrForbidden
	}

	fields, err := decodePatch(patch)
	if err != nil {
		return nil, err
	}

	allowed := collaboratorFields
	if project.IsOwner(user.ID) {
		allowed = ownerFields
	}
	for key := range fields {
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("%w: field %q cannot be changed", ErrForbidden, key)
		}
	}

	updated, err := mergeProject(project, fields)
	if err != nil {
		return nil, err
	}

	if _, ok := fields["status"]; ok && !model.ValidProjectStatus(updated.Status) {
		return nil, invalid("invalid status %q", updated.Status)
	}
	if _, ok := fields["title"]; ok && strings.TrimSpace(updated.Title) == "" {
		return nil, invalid("title is required")
	}
	if _, ok := fields["collaborators"]; ok && !updated.IsCollaborator(updated.OwnerID) {
		return nil, invalid("collaborators must include the project owner")
	}

	err = s.projectRepo.Save(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.refreshSignedURLs(ctx, updated)
	return updated, nil
}

func mergeProject(project *model.Project, fields map[string]json.RawMessage) (*model.Project, error) {
	raw, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	var stored map[string]json.RawMessage
	err = json.Unmarshal(raw, &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}

	maps.Copy(stored, fields)

	merged, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	var updated model.Project
	err = json.Unmarshal(merged, &updated)
	if err != nil {
		return nil, invalid("invalid project fields: %v", err)
	}
	return &updated, nil
}

// refreshSignedURLs replaces stored download links with fresh ones. The
// stored link is kept when presigning fails.
func (s *ProjectService) refreshSignedURLs(ctx context.Context, project *model.Project) {
	for i := range project.Files {
		f := &project.Files[i]
		if f.Path == "" {
			continue
		}
		url, err := s.storage.SignedURL(ctx, f.Path, s.signedURLExpiry)
		if err != nil {
			slog.Warn("failed to refresh signed url", "error", err, "project_id", project.ID, "path", f.Path)
			continue
		}
		f.SignedURL = url
	}
}
