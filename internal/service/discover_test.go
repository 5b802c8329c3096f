package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jamspace/jamspace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(profiles []*model.Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}

func TestDiscoverService_Filters(t *testing.T) {
	f := newFixture()
	f.createProfile("u1", "Ana", "Producer", "House", "Techno")
	f.createProfile("u2", "Ben", "Vocalist", "Jazz")
	f.createProfile("u3", "Cleo", "Music Producer", "Deep House")
	ctx := context.Background()

	_, err := f.profileService.Update(ctx, testIdentity("u2", "Ben", ""), []byte(`{"bio":"Soulful producer of late night jazz"}`))
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter DiscoverFilter
		want   []string
	}{
		{"no filter", DiscoverFilter{}, []string{"Ana", "Ben", "Cleo"}},
		{"all means any", DiscoverFilter{Role: "all", Genre: "all"}, []string{"Ana", "Ben", "Cleo"}},
		{"role substring", DiscoverFilter{Role: "producer"}, []string{"Ana", "Cleo"}},
		{"genre matches any skill", DiscoverFilter{Genre: "house"}, []string{"Ana", "Cleo"}},
		{"search name", DiscoverFilter{Search: "AN"}, []string{"Ana"}},
		{"search bio", DiscoverFilter{Search: "late night"}, []string{"Ben"}},
		{"conjunctive", DiscoverFilter{Role: "producer", Genre: "techno"}, []string{"Ana"}},
		{"no match", DiscoverFilter{Genre: "polka"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.discoverService.Search(ctx, tt.filter)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

func TestDiscoverService_ExampleScenario(t *testing.T) {
	f := newFixture()
	f.createProfile("u1", "A", "Producer", "House")
	f.createProfile("u2", "B", "Vocalist", "Jazz")

	got, err := f.discoverService.Search(context.Background(), DiscoverFilter{Role: "producer"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, names(got))
}

func TestDiscoverService_UnicodeFolding(t *testing.T) {
	f := newFixture()
	f.createProfile("u1", "Zoë", "Électro Producer", "Música Electrónica")

	got, err := f.discoverService.Search(context.Background(), DiscoverFilter{
		Role:   "électro",
		Genre:  "MÚSICA",
		Search: "ZOË",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zoë"}, names(got))
}

func TestDiscoverService_SkipsNamelessProfiles(t *testing.T) {
	f := newFixture()
	f.createProfile("u1", "Ana", "Producer")
	require.NoError(t, f.profiles.Save(context.Background(), &model.Profile{ID: "u2", Role: "Producer"}))

	got, err := f.discoverService.Search(context.Background(), DiscoverFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, names(got))
}

func TestDiscoverService_Limit(t *testing.T) {
	f := newFixture()
	for i := range 25 {
		f.createProfile(fmt.Sprintf("u%d", i), fmt.Sprintf("Artist %d", i), "Producer")
	}

	got, err := f.discoverService.Search(context.Background(), DiscoverFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 20)

	limited := NewDiscoverService(f.profiles, 5)
	got, err = limited.Search(context.Background(), DiscoverFilter{Role: "producer"})
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "Artist 0", got[0].Name)
}

func TestDiscoverService_DefaultLimit(t *testing.T) {
	s := NewDiscoverService(nil, 0)
	assert.Equal(t, 20, s.limit)
}
