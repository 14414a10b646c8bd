package store

import (
	"context"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// Schedules looks up the nearest departures between two stations.
type Schedules interface {
	SelectSchedule(ctx context.Context, fromID, toID int) ([]domain.ScheduleEntry, error)
}

// Favorites stores users and their saved routes.
type Favorites interface {
	InsertUser(ctx context.Context, u domain.BotUser) error
	FavoritesLimited(ctx context.Context, userID int64) (bool, error)
	InsertFavorite(ctx context.Context, userID int64, fromID, toID int) (*domain.Favorite, error)
	SelectFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error)
	DeleteFavorites(ctx context.Context, userID int64) error
}

// Stations reads the station reference data.
type Stations interface {
	SelectStations(ctx context.Context) ([]domain.Station, error)
}

var (
	_ Schedules = (*ScheduleRepo)(nil)
	_ Favorites = (*FavoriteRepo)(nil)
	_ Stations  = (*StationRepo)(nil)
)
