package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the dev stores with demo data",
		Long:  "Insert demo groups and users into the admin store and matching player names into the permissions store. Idempotent — does nothing when data already exists.",
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

			seeded, err := seedDemoData(ctx, adminDB, permsDB)
			if err != nil {
				return err
			}
			if !seeded {
				logger.Info("stores already seeded")
				return nil
			}
			logger.Info("demo data seeded")
			return nil
		},
	}
}

// seedDemoData inserts two groups and three users, one of them frozen so a
// sync run demonstrates the frozen-user exclusion. Returns false when the
// admin store already has groups.
func seedDemoData(ctx context.Context, adminDB, permsDB *sql.DB) (bool, error) {
	var existing int
	if err := adminDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&existing); err != nil {
		return false, fmt.Errorf("count groups: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	groups := []struct {
		name   string
		weight int
	}{
		{"mods", 100},
		{"helpers", 50},
	}
	groupIDs := make(map[string]int64, len(groups))
	for _, g := range groups {
		res, err := adminDB.ExecContext(ctx,
			`INSERT INTO groups (external_name, weight) VALUES (?, ?)`, g.name, g.weight)
		if err != nil {
			return false, fmt.Errorf("insert group %s: %w", g.name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("group %s id: %w", g.name, err)
		}
		groupIDs[g.name] = id
	}

	users := []struct {
		name   string
		group  string
		frozen bool
	}{
		{"alice", "mods", false},
		{"bob", "helpers", false},
		{"mallory", "mods", true},
	}
	for _, u := range users {
		memberUUID := uuid.NewString()
		if _, err := adminDB.ExecContext(ctx,
			`INSERT INTO users (uuid, group_id, frozen) VALUES (?, ?, ?)`,
			memberUUID, groupIDs[u.group], u.frozen); err != nil {
			return false, fmt.Errorf("insert user %s: %w", u.name, err)
		}
		if _, err := permsDB.ExecContext(ctx,
			`INSERT INTO players (uuid, username) VALUES (?, ?)`,
			memberUUID, u.name); err != nil {
			return false, fmt.Errorf("insert player %s: %w", u.name, err)
		}
	}

	return true, nil
}
