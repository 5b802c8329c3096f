package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/repository"
	"github.com/jamspace/jamspace/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	projectRepo repository.ProjectRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, projectRepo repository.ProjectRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		projectRepo: projectRepo,
	}
}

type NewProfile struct {
	ID     string
	Name   string
	Role   string
	Email  string
	Skills []string
}

// Create writes the initial profile for a freshly signed up user.
func (s *ProfileService) Create(ctx context.Context, in NewProfile) (*model.Profile, error) {
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}

	profile := &model.Profile{
		ID:        in.ID,
		Name:      strings.TrimSpace(in.Name),
		Role:      in.Role,
		Email:     in.Email,
		Skills:    skills,
		Credits:   []model.Credit{},
		Projects:  []model.ProjectSummary{},
		CreatedAt: time.Now().UTC(),
	}

	err := s.profileRepo.Save(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) ByID(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profileRepo.ByID(ctx, userID)
}

// Update merges patch over the caller's stored profile. Every top-level field
// in patch replaces the stored value wholesale; id always stays the caller's.
func (s *ProfileService) Update(ctx context.Context, user *model.User, patch json.RawMessage) (*model.Profile, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	fields, err := decodePatch(patch)
	if err != nil {
		return nil, err
	}

	raw, err := s.profileRepo.Raw(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var stored map[string]json.RawMessage
	err = json.Unmarshal(raw, &stored)
	if err != nil || stored == nil {
		return nil, fmt.Errorf("stored profile %s is not an object: %w", user.ID, err)
	}

	maps.Copy(stored, fields)
	stored["id"], _ = json.Marshal(user.ID)

	merged, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	var profile model.Profile
	err = json.Unmarshal(merged, &profile)
	if err != nil {
		return nil, invalid("invalid profile fields: %v", err)
	}

	if _, ok := fields["name"]; ok {
		err = validation.ValidateName(profile.Name)
		if err != nil {
			return nil, invalid("%s", err.Error())
		}
	}

	err = s.profileRepo.Save(ctx, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return &profile, nil
}

// AddProjectSummary records a newly created project on its owner's profile.
// A missing profile is not an error.
func (s *ProfileService) AddProjectSummary(ctx context.Context, userID string, summary model.ProjectSummary) error {
	profile, err := s.profileRepo.ByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		slog.Warn("profile missing, skipping project summary", "user_id", userID, "project_id", summary.ID)
		return nil
	}
	if err != nil {
		return err
	}

	profile.Projects = append(profile.Projects, summary)
	profile.Stats.Projects++

	return s.profileRepo.Save(ctx, profile)
}

// ReconcileProjects rebuilds the project summaries of a profile from the
// projects the user owns. It repairs profiles left behind by a failed
// AddProjectSummary.
func (s *ProfileService) ReconcileProjects(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan projects: %w", err)
	}

	summaries := []model.ProjectSummary{}
	for _, p := range projects {
		if p.OwnerID == userID {
			summaries = append(summaries, p.Summary())
		}
	}

	before := profile.Stats.Projects
	profile.Projects = summaries
	profile.Stats.Projects = len(summaries)

	err = s.profileRepo.Save(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	slog.Info("profile projects reconciled", "user_id", userID, "before", before, "after", len(summaries))
	return profile, nil
}

// decodePatch parses a partial update body. Only JSON objects are accepted.
func decodePatch(patch json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(patch, &fields)
	if err != nil || fields == nil {
		return nil, invalid("request body must be a JSON object")
	}
	return fields, nil
}
