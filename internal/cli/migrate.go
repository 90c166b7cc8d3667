package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"groupsync/internal/config"
	"groupsync/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the dev/test store schemas",
		Long:  "Apply the embedded schema migrations to SQLite-backed admin and permissions stores. Production MySQL stores are externally owned and are never migrated by groupsync.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}

			for _, target := range []struct {
				profile config.DBProfile
				store   string
			}{
				{cfg.Admin, db.StoreAdmin},
				{cfg.Permissions, db.StorePermissions},
			} {
				if target.profile.Driver != config.DriverSQLite {
					return fmt.Errorf("%s store uses driver %q: only sqlite stores are migrated by groupsync", target.store, target.profile.Driver)
				}
				sdb, err := db.Open(target.profile)
				if err != nil {
					return err
				}
				err = db.RunMigrations(sdb, target.store)
				_ = sdb.Close()
				if err != nil {
					return err
				}
				logger.Info("migrations applied", "store", target.store, "path", target.profile.Path)
			}
			return nil
		},
	}
}
