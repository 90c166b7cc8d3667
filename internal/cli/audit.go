package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"groupsync/internal/db"
	"groupsync/internal/db/repository"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent audit entries from the permissions store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(opts)
			if err != nil {
				return err
			}

			permsDB, err := db.Open(cfg.Permissions)
			if err != nil {
				return err
			}
			defer permsDB.Close() //nolint:errcheck

			entries, err := repository.NewAuditRepo(permsDB).List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			for _, e := range entries {
				ts := time.Unix(e.Time, 0).UTC().Format(time.RFC3339)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s (%s)  %s\n",
					ts, e.ActorName, e.ActedName, e.ActedUUID, e.Action)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of entries to show")

	return cmd
}
