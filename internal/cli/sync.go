package cli

import "github.com/spf13/cobra"

func newSyncCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one reconciliation pass",
		Long:  "Compute the membership differences between the admin store and the permissions store and apply them in a single transaction.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			adminDB, permsDB, err := openStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStores(adminDB, permsDB)

			svc := newService(adminDB, permsDB, cfg, logger)

			if dryRun {
				plan, desired, err := svc.Plan(ctx)
				if err != nil {
					return err
				}
				for _, group := range desired.Groups {
					for _, m := range plan.ToRemove[group].Sorted() {
						logger.Info("would remove", "group", group, "member", m)
					}
					for _, m := range plan.ToAdd[group].Sorted() {
						logger.Info("would add", "group", group, "member", m)
					}
				}
				logger.Info("dry run complete",
					"groups", desired.Len(),
					"to_add", plan.Adds(),
					"to_remove", plan.Removes(),
				)
				return nil
			}

			_, err = svc.Run(ctx)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and log the plan without applying it")

	return cmd
}
