package store

import (
	"context"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// StationRepo reads and seeds the station list.
type StationRepo struct {
	db     *DB
	upsert string
}

func NewStationRepo(db *DB) *StationRepo {
	return &StationRepo{
		db: db,
		upsert: db.dialect.rebind(`
			INSERT INTO station (id, name) VALUES (?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name`),
	}
}

// SelectStations returns all stations ordered by id, i.e. along the line.
func (r *StationRepo) SelectStations(ctx context.Context) ([]domain.Station, error) {
	rows, err := r.db.sql.QueryContext(ctx, `SELECT id, name FROM station ORDER BY id`)
	if err != nil {
		return nil, unavailable("select stations", err)
	}
	defer rows.Close()

	var res []domain.Station
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, unavailable("select stations", err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("select stations", err)
	}
	return res, nil
}

// UpsertStations inserts or renames stations in one transaction.
func (r *StationRepo) UpsertStations(ctx context.Context, stations []domain.Station) error {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("upsert stations", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range stations {
		if _, err := tx.ExecContext(ctx, r.upsert, s.ID, s.Name); err != nil {
			return unavailable("upsert stations", err)
		}
	}
	return unavailable("upsert stations", tx.Commit())
}
