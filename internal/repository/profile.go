package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jamspace/jamspace/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileKeyPrefix = "user:"

func profileKey(id string) string {
	return profileKeyPrefix + id
}

type ProfileRepository interface {
	ByID(ctx context.Context, id string) (*model.Profile, error)
	// Raw returns the stored document without decoding it.
	Raw(ctx context.Context, id string) (json.RawMessage, error)
	Save(ctx context.Context, profile *model.Profile) error
	All(ctx context.Context) ([]*model.Profile, error)
}

type profileRepository struct {
	kv KVStore
}

func NewProfileRepository(kv KVStore) ProfileRepository {
	return &profileRepository{kv: kv}
}

func (r *profileRepository) Raw(ctx context.Context, id string) (json.RawMessage, error) {
	raw, err := r.kv.Get(ctx, profileKey(id))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrProfileNotFound
	}
	return raw, err
}

func (r *profileRepository) ByID(ctx context.Context, id string) (*model.Profile, error) {
	raw, err := r.Raw(ctx, id)
	if err != nil {
		return nil, err
	}

	var profile model.Profile
	err = json.Unmarshal(raw, &profile)
	if err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *model.Profile) error {
	return r.kv.Set(ctx, profileKey(profile.ID), profile)
}

// All returns every stored profile in scan order. Documents that fail to
// decode are skipped.
func (r *profileRepository) All(ctx context.Context) ([]*model.Profile, error) {
	raws, err := r.kv.GetByPrefix(ctx, profileKeyPrefix)
	if err != nil {
		return nil, err
	}

	profiles := make([]*model.Profile, 0, len(raws))
	for _, raw := range raws {
		var p model.Profile
		err = json.Unmarshal(raw, &p)
		if err != nil {
			slog.Warn("skipping undecodable profile", "error", err)
			continue
		}
		profiles = append(profiles, &p)
	}
	return profiles, nil
}
