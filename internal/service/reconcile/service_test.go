package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupsync/internal/domain"
	"groupsync/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func desiredSnapshot() *domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.AddMember("mod", "A")
	snap.AddMember("mod", "B")
	snap.AddGroup("helper")
	return snap
}

func TestService_Run_AppliesPlan(t *testing.T) {
	admin := &testutil.MockAdminRepo{Snapshot: desiredSnapshot()}
	perms := &testutil.MockPermissionRepo{
		Current: map[string]domain.MemberSet{
			"mod":    domain.NewMemberSet("B", "C"),
			"helper": domain.NewMemberSet("D"),
		},
	}
	svc := NewService(admin, perms, discardLogger())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Added: 1, Removed: 2, Groups: 2}, summary)

	tx := perms.LastTx()
	require.NotNil(t, tx)
	assert.True(t, tx.Committed)
	assert.False(t, tx.RolledBack)
	assert.Equal(t, map[string][]string{"mod": {"A"}}, tx.Added)
	assert.Equal(t, map[string][]string{"mod": {"C"}, "helper": {"D"}}, tx.Removed)

	// Current-state fetch was restricted to the desired keyspace, in
	// snapshot order.
	require.Len(t, perms.FetchCalls, 1)
	assert.Equal(t, []string{"mod", "helper"}, perms.FetchCalls[0])
}

func TestService_Run_Idempotent(t *testing.T) {
	admin := &testutil.MockAdminRepo{Snapshot: desiredSnapshot()}
	perms := &testutil.MockPermissionRepo{
		Current: map[string]domain.MemberSet{
			"mod":    domain.NewMemberSet("C"),
			"helper": domain.NewMemberSet(),
		},
	}
	svc := NewService(admin, perms, discardLogger())
	ctx := context.Background()

	first, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Added)
	assert.Equal(t, 1, first.Removed)

	// Nothing changed externally: the second run must be a zero no-op.
	second, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Added)
	assert.Zero(t, second.Removed)
	assert.Len(t, perms.Txs, 1) // no transaction opened for the no-op run
}

func TestService_Run_NoopSkipsTransaction(t *testing.T) {
	admin := &testutil.MockAdminRepo{Snapshot: desiredSnapshot()}
	perms := &testutil.MockPermissionRepo{
		Current: map[string]domain.MemberSet{
			"mod":    domain.NewMemberSet("A", "B"),
			"helper": domain.NewMemberSet(),
		},
	}
	svc := NewService(admin, perms, discardLogger())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Groups: 2}, summary)
	assert.Empty(t, perms.Txs)
}

func TestService_Run_EmptyDesiredIsNoop(t *testing.T) {
	admin := &testutil.MockAdminRepo{Snapshot: domain.NewSnapshot()}
	perms := &testutil.MockPermissionRepo{}
	svc := NewService(admin, perms, discardLogger())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)

	// The empty-IN-list query must never be issued.
	assert.Empty(t, perms.FetchCalls)
}

func TestService_Run_MutationErrorRollsBack(t *testing.T) {
	admin := &testutil.MockAdminRepo{Snapshot: desiredSnapshot()}
	perms := &testutil.MockPermissionRepo{
		Current: map[string]domain.MemberSet{
			"mod":    domain.NewMemberSet(),
			"helper": domain.NewMemberSet(),
		},
	}
	failing := &failingPermRepo{
		MockPermissionRepo: perms,
		addErr:             domain.ErrConflict("grant already exists"),
	}
	svc := NewService(admin, failing, discardLogger())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)

	tx := failing.LastTx()
	require.NotNil(t, tx)
	assert.True(t, tx.RolledBack)
	assert.False(t, tx.Committed)
}

// failingPermRepo wraps MockPermissionRepo so every transaction fails adds.
type failingPermRepo struct {
	*testutil.MockPermissionRepo
	addErr error
}

func (f *failingPermRepo) Begin(ctx context.Context) (domain.MembershipTx, error) {
	tx, err := f.MockPermissionRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	mtx := tx.(*testutil.MockMembershipTx)
	mtx.AddErr = f.addErr
	return mtx, nil
}

func TestService_Run_FetchErrors(t *testing.T) {
	boom := errors.New("store unreachable")

	t.Run("admin fetch fails", func(t *testing.T) {
		admin := &testutil.MockAdminRepo{Err: boom}
		perms := &testutil.MockPermissionRepo{}
		_, err := NewService(admin, perms, discardLogger()).Run(context.Background())
		require.ErrorIs(t, err, boom)
		assert.Empty(t, perms.Txs)
	})

	t.Run("current fetch fails", func(t *testing.T) {
		admin := &testutil.MockAdminRepo{Snapshot: desiredSnapshot()}
		perms := &testutil.MockPermissionRepo{FetchErr: boom}
		_, err := NewService(admin, perms, discardLogger()).Run(context.Background())
		require.ErrorIs(t, err, boom)
		assert.Empty(t, perms.Txs)
	})
}

func TestService_Plan_DoesNotMutate(t *testing.T) {
	admin := &testutil.MockAdminRepo{Snapshot: desiredSnapshot()}
	perms := &testutil.MockPermissionRepo{
		Current: map[string]domain.MemberSet{
			"mod":    domain.NewMemberSet("C"),
			"helper": domain.NewMemberSet(),
		},
	}
	svc := NewService(admin, perms, discardLogger())

	plan, desired, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Adds())
	assert.Equal(t, 1, plan.Removes())
	assert.Equal(t, []string{"mod", "helper"}, desired.Groups)
	assert.Empty(t, perms.Txs)
}
