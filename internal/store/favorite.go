package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// FavoriteRepo stores bot users and their favorite routes.
type FavoriteRepo struct {
	db    *DB
	limit int

	insertUser     string
	countFavorites string
	insertFavorite string
	selectFavorite string
	deleteFavorite string
}

// NewFavoriteRepo builds the favorites repository. limit is the maximum number
// of favorites per user checked by FavoritesLimited (default 2).
func NewFavoriteRepo(db *DB, limit int) *FavoriteRepo {
	if limit <= 0 {
		limit = 2
	}
	d := db.dialect
	return &FavoriteRepo{
		db:    db,
		limit: limit,
		insertUser: d.rebind(`
			INSERT INTO bot_user (id, first_name, last_name, username, is_bot)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING`),
		countFavorites: d.rebind(`SELECT COUNT(*) FROM favorite WHERE bot_user_id = ?`),
		insertFavorite: d.rebind(`
			INSERT INTO favorite (bot_user_id, from_station_id, to_station_id)
			VALUES (?, ?, ?)
			ON CONFLICT (bot_user_id, from_station_id, to_station_id) DO NOTHING
			RETURNING id`),
		selectFavorite: d.rebind(`
			SELECT id, bot_user_id, from_station_id, to_station_id
			FROM favorite
			WHERE bot_user_id = ?
			ORDER BY id ASC`),
		deleteFavorite: d.rebind(`DELETE FROM favorite WHERE bot_user_id = ?`),
	}
}

// InsertUser saves the user profile unless a row with the same id exists.
func (r *FavoriteRepo) InsertUser(ctx context.Context, u domain.BotUser) error {
	_, err := r.db.sql.ExecContext(ctx, r.insertUser,
		u.ID, u.FirstName, toNullString(u.LastName), toNullString(u.Username), u.IsBot,
	)
	return unavailable("insert user", err)
}

// FavoritesLimited reports whether the user already has the maximum number of
// favorites. InsertFavorite does not check the limit itself.
func (r *FavoriteRepo) FavoritesLimited(ctx context.Context, userID int64) (bool, error) {
	var n int
	if err := r.db.sql.QueryRowContext(ctx, r.countFavorites, userID).Scan(&n); err != nil {
		return false, unavailable("count favorites", err)
	}
	return n >= r.limit, nil
}

// InsertFavorite saves a route. If the user already has this route it returns
// (nil, nil) and writes nothing.
func (r *FavoriteRepo) InsertFavorite(ctx context.Context, userID int64, fromID, toID int) (*domain.Favorite, error) {
	f := &domain.Favorite{BotUserID: userID, FromStationID: fromID, ToStationID: toID}
	err := r.db.sql.QueryRowContext(ctx, r.insertFavorite, userID, fromID, toID).Scan(&f.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("insert favorite", err)
	}
	return f, nil
}

// SelectFavorites returns the user's routes, oldest first.
func (r *FavoriteRepo) SelectFavorites(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	rows, err := r.db.sql.QueryContext(ctx, r.selectFavorite, userID)
	if err != nil {
		return nil, unavailable("select favorites", err)
	}
	defer rows.Close()

	var res []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.ID, &f.BotUserID, &f.FromStationID, &f.ToStationID); err != nil {
			return nil, unavailable("select favorites", err)
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("select favorites", err)
	}
	return res, nil
}

// DeleteFavorites removes all routes of the user. Deleting nothing is fine.
func (r *FavoriteRepo) DeleteFavorites(ctx context.Context, userID int64) error {
	_, err := r.db.sql.ExecContext(ctx, r.deleteFavorite, userID)
	return unavailable("delete favorites", err)
}
