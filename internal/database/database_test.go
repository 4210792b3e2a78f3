package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai-backend/internal/config"
	"wanderai-backend/internal/logging"
	"wanderai-backend/internal/models"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp_UsesEmbeddedDir(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()
	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, MigrateUp(context.Background(), db))
	assert.Equal(t, "migrations", gotDir)
}

func TestMigrateUp_WrapsError(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err := MigrateUp(context.Background(), db)
	require.Error(t, err)
	assert.Equal(t, "migrate up: boom", err.Error())
}

func TestMigrateDown_WrapsError(t *testing.T) {
	db := newDB(t)

	orig := gooseDownContext
	defer func() { gooseDownContext = orig }()
	gooseDownContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("no migrations")
	}

	assert.EqualError(t, MigrateDown(context.Background(), db), "migrate down: no migrations")
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrations.ReadDir(migrationsDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"00001_init.sql", "00002_trip_images.sql"}, names)
}

type fakeSeeder struct {
	count    int
	inserted []models.Destination
}

func (f *fakeSeeder) Count(context.Context) (int, error) { return f.count, nil }

func (f *fakeSeeder) Insert(_ context.Context, d *models.Destination) error {
	f.inserted = append(f.inserted, *d)
	return nil
}

func TestSeedDestinations_BuiltInCatalog(t *testing.T) {
	store := &fakeSeeder{}

	n, err := SeedDestinations(context.Background(), store, nil, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, 6, n)
	require.Len(t, store.inserted, 6)
	rome := store.inserted[0]
	assert.Equal(t, "Rome", rome.Name)
	assert.Equal(t, "Italy", *rome.Country)
	assert.Equal(t, 140.0, *rome.Budget)
	assert.Contains(t, rome.Attractions, "Colosseum")
	assert.Equal(t, "Bangkok", store.inserted[5].Name)
	assert.Equal(t, 70.0, *store.inserted[5].Budget)
}

func TestSeedDestinations_SkipsWhenPopulated(t *testing.T) {
	store := &fakeSeeder{count: 3}

	n, err := SeedDestinations(context.Background(), store, nil, logging.Discard())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.inserted)
}

func TestParseDestinations_RequiresName(t *testing.T) {
	_, err := ParseDestinations([]byte("- country: Nowhere\n"))
	assert.Error(t, err)
}

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		URL:            "postgres://u:p@localhost:5432/wanderai?sslmode=disable",
		MaxConns:       7,
		MaxLifetime:    time.Hour,
		QueryTimeout:   30 * time.Second,
		SimpleProtocol: true,
	}}

	pcfg, err := PoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(7), pcfg.MaxConns)
	assert.Equal(t, time.Hour, pcfg.MaxConnLifetime)
	assert.Equal(t, "wanderai-backend", pcfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "30000", pcfg.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, "wanderai", pcfg.ConnConfig.Database)
}
