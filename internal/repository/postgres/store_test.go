package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository/repotest"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	sharedOnce    sync.Once
	sharedInitErr error
	sharedPool    *pgxpool.Pool
	sharedDBURL   string
)

const sharedContainerName = "eventoz-storage-db"

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedPool != nil {
		sharedPool.Close()
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, err := tcpostgres.Run(
			ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("eventoz"),
			tcpostgres.WithUsername("eventoz"),
			tcpostgres.WithPassword("eventoz"),
			tcpostgres.BasicWaitStrategies(),
			testcontainers.WithReuseByName(sharedContainerName),
		)
		if err != nil {
			sharedInitErr = err
			return
		}

		sharedDBURL, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedInitErr = err
			return
		}
		if err := MigrateUp(sharedDBURL); err != nil {
			sharedInitErr = err
			return
		}
		sharedPool, sharedInitErr = pgxpool.New(ctx, sharedDBURL)
	})
	require.NoError(t, sharedInitErr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := sharedPool.Exec(ctx, `TRUNCATE users, events, event_registrations RESTART IDENTITY`)
	require.NoError(t, err)

	return sharedPool
}

func TestStore(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store {
		store, err := NewStore(setupPostgres(t))
		require.NoError(t, err)
		return store
	})
}

func TestNewStoreRequiresPool(t *testing.T) {
	_, err := NewStore(nil)
	require.Error(t, err)
}

func TestMigrationVersion(t *testing.T) {
	setupPostgres(t)

	version, dirty, err := MigrationVersion(sharedDBURL)
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, version)

	// Up is idempotent once applied.
	require.NoError(t, MigrateUp(sharedDBURL))
}

func TestMigrateDownRejectsZeroSteps(t *testing.T) {
	require.Error(t, MigrateDown("postgres://unused", 0))
}
