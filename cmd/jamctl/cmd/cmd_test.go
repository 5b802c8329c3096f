package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/repository"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION", filepath.Join(t.TempDir(), "jamspace.db"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "jamctl", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(MigrateCmd(), ReconcileCmd(), KVCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	useTempStore(t)

	_, err := run(t, "migrate", "up")
	require.NoError(t, err)

	out, err := run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, err = run(t, "migrate", "down")
	require.NoError(t, err)

	out, err = run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestReconcileAndKV(t *testing.T) {
	useTempStore(t)
	ctx := context.Background()

	_, err := run(t, "migrate", "up")
	require.NoError(t, err)

	database, _, err := openStore(ctx)
	require.NoError(t, err)
	kv := repository.NewSQLKVStore(database)
	require.NoError(t, repository.NewProfileRepository(kv).Save(ctx, &model.Profile{
		ID: "u1", Name: "Ana", Role: "Producer", Skills: []string{}, CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, repository.NewProjectRepository(kv).Save(ctx, &model.Project{
		ID: "p1", Title: "Night Drive", OwnerID: "u1", Status: model.ProjectStatusPlanning,
		Collaborators: []model.Collaborator{{ID: "u1", Name: "Ana", Role: "Producer"}},
	}))
	require.NoError(t, database.Close())

	_, err = run(t, "reconcile")
	assert.Error(t, err)

	out, err := run(t, "reconcile", "--all")
	require.NoError(t, err)
	assert.Equal(t, "u1\tprojects=1\n", out)

	out, err = run(t, "kv", "get", "user:u1")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Night Drive"`)

	out, err = run(t, "kv", "scan", "project:")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n"))
	assert.Contains(t, out, `"id": "p1"`)
}
