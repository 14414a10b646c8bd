package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Whitenz/next-train-telegram-bot/internal/store"
)

func TestRun_BundledTimetableAndStations(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "metro.db")
	stationsFile := filepath.Join(dir, "stations.csv")
	require.NoError(t, os.WriteFile(stationsFile, []byte("id,name\n5,Динамо (ст.)\n"), 0o600))

	cfg := seedConfig{DatabaseURL: dsn}
	require.NoError(t, run(cfg, "", stationsFile, zap.NewNop()))
	// second run skips every row
	require.NoError(t, run(cfg, "", "", zap.NewNop()))

	ctx := context.Background()
	db, err := store.Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	list, err := store.NewStationRepo(db).SelectStations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 9)
	assert.Equal(t, "Динамо (ст.)", list[4].Name)

	// Monday 06:00: the first trains towards Ботаническая are close.
	monday := time.Date(2024, time.January, 15, 6, 0, 0, 0, time.UTC)
	repo := store.NewScheduleRepo(db, store.ScheduleOptions{
		Location: time.UTC,
		Now:      func() time.Time { return monday },
	})
	entries, err := repo.SelectSchedule(ctx, 1, 9)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRun_BadFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "schedule.csv")
	require.NoError(t, os.WriteFile(bad, []byte("from_station_id,to_station_id\n1,9\n"), 0o600))

	err := run(seedConfig{DatabaseURL: filepath.Join(dir, "metro.db")}, bad, "", zap.NewNop())
	require.Error(t, err)
}
