package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jamspace/jamspace/internal/model"
)

var ErrProjectNotFound = errors.New("project not found")

const projectKeyPrefix = "project:"

func projectKey(id string) string {
	return projectKeyPrefix + id
}

type ProjectRepository interface {
	ByID(ctx context.Context, id string) (*model.Project, error)
	Save(ctx context.Context, project *model.Project) error
	All(ctx context.Context) ([]*model.Project, error)
}

type projectRepository struct {
	kv KVStore
}

func NewProjectRepository(kv KVStore) ProjectRepository {
	return &projectRepository{kv: kv}
}

func (r *projectRepository) ByID(ctx context.Context, id string) (*model.Project, error) {
	raw, err := r.kv.Get(ctx, projectKey(id))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	var project model.Project
	err = json.Unmarshal(raw, &project)
	if err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &project, nil
}

func (r *projectRepository) Save(ctx context.Context, project *model.Project) error {
	return r.kv.Set(ctx, projectKey(project.ID), project)
}

func (r *projectRepository) All(ctx context.Context) ([]*model.Project, error) {
	raws, err := r.kv.GetByPrefix(ctx, projectKeyPrefix)
	if err != nil {
		return nil, err
	}

	projects := make([]*model.Project, 0, len(raws))
	for _, raw := range raws {
		var p model.Project
		err = json.Unmarshal(raw, &p)
		if err != nil {
			slog.Warn("skipping undecodable project", "error", err)
			continue
		}
		projects = append(projects, &p)
	}
	return projects, nil
}
