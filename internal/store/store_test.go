package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// newTestDB returns a migrated SQLite store in a temp dir. Stations 1..9 come
// from the seed migration.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "metro.db")
	require.NoError(t, Migrate(path))

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func clock(s string) domain.Clock { return domain.MustParseClock(s) }

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metro.db")
	require.NoError(t, Migrate(path))
	require.NoError(t, Migrate(path))
}

func TestOpen_SQLiteDriver(t *testing.T) {
	db := newTestDB(t)
	require.Equal(t, "sqlite", db.Driver())
	require.NoError(t, db.Ping(context.Background()))
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = CAST(? AS TIME)"
	require.Equal(t, q, sqliteDialect.rebind(q))
	require.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = CAST($2 AS TIME)", postgresDialect.rebind(q))
}

func TestStationRepo_SelectStations(t *testing.T) {
	db := newTestDB(t)
	repo := NewStationRepo(db)

	stations, err := repo.SelectStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 9)
	for i, s := range stations {
		require.Equal(t, i+1, s.ID)
		require.NotEmpty(t, s.Name)
	}
}

func TestStationRepo_UpsertStations(t *testing.T) {
	db := newTestDB(t)
	repo := NewStationRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertStations(ctx, []domain.Station{{ID: 1, Name: "Космонавтов"}}))

	stations, err := repo.SelectStations(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 9)
	require.Equal(t, "Космонавтов", stations[0].Name)
}
