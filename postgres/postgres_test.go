package postgres_test

import (
	"context"
	"movieapp/postgres"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	postgresImage  = "docker.io/postgres:15.2-alpine"
	migrationsPath = "../migrations"
)

func TestNewConnection(t *testing.T) {
	t.Run("connects as the configured user", func(t *testing.T) {
		db := newTestDB(t, "conn_test", "moviebuff", "s3cret")

		var user string
		require.NoError(t, db.Raw("SELECT current_user").Scan(&user).Error)

		assert.Equal(t, "moviebuff", user)
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		_, err := postgres.NewConnection(postgres.Options{
			DBName:   "movies",
			DBUser:   "nobody",
			Password: "wrong",
			Host:     "invalidhost",
			Port:     "5432",
			SSLMode:  true,
		})

		assert.Error(t, err)
	})
}

func TestMigrations(t *testing.T) {
	db := newTestDB(t, "migration_test", "movies", "movies")

	assert.Positive(t, applyMigrations(t, db, migrate.Up, 0))
	assert.True(t, db.Migrator().HasTable("movies"))

	assert.Equal(t, 1, applyMigrations(t, db, migrate.Down, 1))
	assert.False(t, db.Migrator().HasTable("movies"))

	applyMigrations(t, db, migrate.Up, 0)
	assert.True(t, db.Migrator().HasTable("movies"))
}

// newMigratedDB returns a fresh database with the movies schema in place.
func newMigratedDB(t testing.TB, dbName string) *gorm.DB {
	t.Helper()
	db := newTestDB(t, dbName, "movies", "movies")
	applyMigrations(t, db, migrate.Up, 0)
	return db
}

// newTestDB starts a throwaway postgres container and connects to it
// through postgres.NewConnection. The container goes away with the test.
func newTestDB(t testing.TB, dbName, user, pass string) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	cont, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage(postgresImage),
		pgcontainer.WithDatabase(dbName),
		pgcontainer.WithUsername(user),
		pgcontainer.WithPassword(pass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cont.Terminate(ctx)) })

	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   dbName,
		DBUser:   user,
		Password: pass,
		Host:     host,
		Port:     port.Port(),
	})
	require.NoError(t, err)
	return db
}

func applyMigrations(t testing.TB, db *gorm.DB, dir migrate.MigrationDirection, maxSteps int) int {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)

	n, err := migrate.ExecMax(sqlDB, "postgres", &migrate.FileMigrationSource{Dir: migrationsPath}, dir, maxSteps)
	require.NoError(t, err)
	return n
}
