package cli

import (
	"context"
	"database/sql"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"groupsync/internal/config"
	"groupsync/internal/db"
	"groupsync/internal/db/repository"
	"groupsync/internal/domain"
	"groupsync/internal/service/reconcile"
)

// openStores opens and pings the admin and permissions stores concurrently.
// They are independent connections with no shared state.
func openStores(ctx context.Context, cfg *config.Config) (adminDB, permsDB *sql.DB, err error) {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		adminDB, err = db.Open(cfg.Admin)
		return err
	})
	g.Go(func() error {
		var err error
		permsDB, err = db.Open(cfg.Permissions)
		return err
	})

	if err := g.Wait(); err != nil {
		if adminDB != nil {
			_ = adminDB.Close()
		}
		if permsDB != nil {
			_ = permsDB.Close()
		}
		return nil, nil, err
	}

	return adminDB, permsDB, nil
}

func closeStores(adminDB, permsDB *sql.DB) {
	_ = adminDB.Close()
	_ = permsDB.Close()
}

// newService wires the repositories and reconciliation service over the two
// open stores.
func newService(adminDB, permsDB *sql.DB, cfg *config.Config, logger *slog.Logger) *reconcile.Service {
	return reconcile.NewService(
		repository.NewAdminRepo(adminDB),
		repository.NewPermissionRepo(permsDB, domain.SystemClock{}, cfg.ActorName),
		logger,
	)
}
