package cmd

import (
	"fmt"

	"github.com/jamspace/jamspace/internal/repository"
	"github.com/jamspace/jamspace/internal/service"
	"github.com/spf13/cobra"
)

func ReconcileCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reconcile [userID...]",
		Short: "Rebuild profile project summaries from stored projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("pass one or more user ids, or --all")
			}

			database, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			kv := repository.NewSQLKVStore(database)
			profileRepo := repository.NewProfileRepository(kv)
			profiles := service.NewProfileService(profileRepo, repository.NewProjectRepository(kv))

			userIDs := args
			if all {
				stored, err := profileRepo.All(cmd.Context())
				if err != nil {
					return err
				}
				userIDs = nil
				for _, p := range stored {
					userIDs = append(userIDs, p.ID)
				}
			}

			for _, id := range userIDs {
				profile, err := profiles.ReconcileProjects(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("reconcile %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tprojects=%d\n", profile.ID, profile.Stats.Projects)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Reconcile every stored profile")
	return cmd
}
