package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/Whitenz/next-train-telegram-bot/assets"
	"github.com/Whitenz/next-train-telegram-bot/internal/config"
	"github.com/Whitenz/next-train-telegram-bot/internal/logger"
	"github.com/Whitenz/next-train-telegram-bot/internal/store"
	"github.com/Whitenz/next-train-telegram-bot/internal/timetable"
)

type seedConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" default:"./data/metro.db"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	file := flag.String("file", "", "timetable CSV to import (default: bundled timetable)")
	stationsFile := flag.String("stations", "", "optional station CSV (id,name) to upsert before the timetable")
	flag.Parse()

	if err := config.LoadEnvFiles(config.DefaultEnvFiles...); err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}
	var cfg seedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, *file, *stationsFile, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
}

func run(cfg seedConfig, file, stationsFile string, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := store.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if stationsFile != "" {
		if err := upsertStations(ctx, db, stationsFile); err != nil {
			return err
		}
		log.Info("stations upserted", zap.String("file", stationsFile))
	}

	src, err := openTimetable(file)
	if err != nil {
		return err
	}
	defer src.Close()

	entries, err := timetable.Parse(src)
	if err != nil {
		return err
	}
	inserted, err := store.NewScheduleRepo(db, store.ScheduleOptions{}).ImportSchedule(ctx, entries)
	if err != nil {
		return err
	}
	log.Info("timetable imported",
		zap.String("driver", db.Driver()),
		zap.Int("rows", len(entries)),
		zap.Int("inserted", inserted),
		zap.Int("skipped", len(entries)-inserted),
	)
	return nil
}

func openTimetable(path string) (io.ReadCloser, error) {
	if path == "" {
		return assets.Schedule()
	}
	return os.Open(path)
}

func upsertStations(ctx context.Context, db *store.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	list, err := timetable.ParseStations(f)
	if err != nil {
		return err
	}
	return store.NewStationRepo(db).UpsertStations(ctx, list)
}
