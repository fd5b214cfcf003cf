//go:build integration

package migrations_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"court-service/internal/adapter/db/postgres"
	"court-service/internal/domain/auth"
	"court-service/migrations"
)

const (
	testUser     = "postgres"
	testPassword = "postgres"
	testDB       = "court_test"
)

func startPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       testDB,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", testUser, testPassword, host, port.Port(), testDB)
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	sqlDB := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Up(ctx, sqlDB))
	applied, err := migrations.River(ctx, pool)
	require.NoError(t, err)
	assert.Positive(t, applied)

	t.Run("Idempotent", func(t *testing.T) {
		require.NoError(t, migrations.Up(ctx, sqlDB))
		applied, err := migrations.River(ctx, pool)
		require.NoError(t, err)
		assert.Zero(t, applied)

		version, err := migrations.Version(ctx, sqlDB)
		require.NoError(t, err)
		assert.Equal(t, int64(3), version)
	})

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	t.Run("Seeded Library", func(t *testing.T) {
		repo := postgres.NewJudicialRepoPG(db, log)

		precedents, err := repo.ListPrecedents(ctx)
		require.NoError(t, err)
		assert.Len(t, precedents, 3)

		statutes, err := repo.ListStatutes(ctx)
		require.NoError(t, err)
		require.Len(t, statutes, 3)
		assert.NotEmpty(t, statutes[0].Sections)

		found, err := repo.SearchPrecedents(ctx, "occupancy", "", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "SC.456/2020", found[0].CaseNumber)
		assert.Equal(t, []string{"Land Dispute", "Certificate of Occupancy"}, found[0].Subcategories)
	})

	t.Run("Seeded Registry", func(t *testing.T) {
		repo := postgres.NewIdentityRepoPG(db, log)

		rec, err := repo.FindRecord(ctx, "12345678901")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "Adewale", rec.FirstName)

		official, err := repo.FindOfficial(ctx, "JUD-FCT-001")
		require.NoError(t, err)
		require.NotNil(t, official)
		assert.Equal(t, "judge", official.Role)
	})

	t.Run("Users", func(t *testing.T) {
		repo := postgres.NewUserRepoPG(db, log)

		id, err := repo.Create(ctx, &auth.User{
			Username: "registrar", Email: "Registrar@court.gov.ng", FullName: "Chief Registrar",
			Role: auth.RoleRegistrar, PasswordHash: "hash", Active: true,
		})
		require.NoError(t, err)

		u, err := repo.GetByEmail(ctx, "registrar@COURT.gov.ng")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, id, u.ID)
	})
}
