package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONShape(t *testing.T) {
	user := User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$secret",
		Metadata:     UserMetadata{Name: "Ana", Role: "Producer", Skills: []string{"House"}},
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &fields))

	assert.ElementsMatch(t, []string{"id", "email", "user_metadata", "created_at"}, keys(fields))
	assert.JSONEq(t, `{"name":"Ana","role":"Producer","skills":["House"]}`, string(fields["user_metadata"]))
	assert.NotContains(t, string(b), "secret")
}

func TestUserMetadata_ValueAndScan(t *testing.T) {
	in := UserMetadata{Name: "Ben", Role: "Vocalist", Skills: []string{"Soul"}}

	v, err := in.Value()
	require.NoError(t, err)

	var out UserMetadata
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	require.NoError(t, out.Scan([]byte(`{"name":"Cy"}`)))
	assert.Equal(t, "Cy", out.Name)

	require.NoError(t, out.Scan(nil))
	assert.Equal(t, UserMetadata{}, out)

	assert.Error(t, out.Scan(42))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
