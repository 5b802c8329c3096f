package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/repository"
	"golang.org/x/text/cases"
)

// DiscoverFilter narrows a discovery scan. Empty fields, and "all" for Role
// and Genre, do not constrain.
type DiscoverFilter struct {
	Role   string
	Genre  string
	Search string
}

type DiscoverService struct {
	profileRepo repository.ProfileRepository
	limit       int
}

func NewDiscoverService(profileRepo repository.ProfileRepository, limit int) *DiscoverService {
	if limit <= 0 {
		limit = 20
	}
	return &DiscoverService{
		profileRepo: profileRepo,
		limit:       limit,
	}
}

// Search returns profiles matching every filter, in scan order, capped at
// the configured limit.
func (s *DiscoverService) Search(ctx context.Context, filter DiscoverFilter) ([]*model.Profile, error) {
	profiles, err := s.profileRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}

	m := newMatcher(filter)

	results := make([]*model.Profile, 0, min(len(profiles), s.limit))
	for _, p := range profiles {
		if !p.Valid() || !m.match(p) {
			continue
		}
		results = append(results, p)
		if len(results) == s.limit {
			break
		}
	}
	return results, nil
}

type matcher struct {
	fold   cases.Caser
	role   string
	genre  string
	search string
}

// newMatcher pre-folds the filter values. A Caser keeps state, so each
// search gets its own.
func newMatcher(f DiscoverFilter) *matcher {
	m := &matcher{fold: cases.Fold()}
	if f.Role != "" && f.Role != "all" {
		m.role = m.fold.String(f.Role)
	}
	if f.Genre != "" && f.Genre != "all" {
		m.genre = m.fold.String(f.Genre)
	}
	if f.Search != "" {
		m.search = m.fold.String(f.Search)
	}
	return m
}

func (m *matcher) contains(s, folded string) bool {
	return strings.Contains(m.fold.String(s), folded)
}

func (m *matcher) match(p *model.Profile) bool {
	if m.role != "" && !m.contains(p.Role, m.role) {
		return false
	}

	if m.genre != "" {
		found := false
		for _, skill := range p.Skills {
			if m.contains(skill, m.genre) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if m.search != "" && !m.contains(p.Name, m.search) && !m.contains(p.Bio, m.search) {
		return false
	}

	return true
}
