package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// ScheduleOptions tune SelectSchedule. Zero values fall back to defaults.
type ScheduleOptions struct {
	MaxWait  time.Duration    // default 60m
	Limit    int              // default 2
	Location *time.Location   // default time.Local
	Now      func() time.Time // default time.Now
}

// ScheduleRepo reads the timetable.
type ScheduleRepo struct {
	db          *DB
	opts        ScheduleOptions
	selectQuery string
	insertQuery string
}

// NewScheduleRepo builds the schedule repository over db.
func NewScheduleRepo(db *DB, opts ScheduleOptions) *ScheduleRepo {
	if opts.MaxWait <= 0 {
		opts.MaxWait = time.Hour
	}
	if opts.Limit <= 0 {
		opts.Limit = 2
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := db.dialect
	// wait_sec is the time to departure taken modulo one day: a departure
	// earlier on the clock than now is the next run after midnight. The
	// max wait filter keeps such rows out unless they are within the window.
	selectQuery := fmt.Sprintf(`
		SELECT from_station_id, to_station_id, is_weekend, departure_sec, wait_sec
		FROM (
			SELECT from_station_id, to_station_id, is_weekend,
			       %[1]s AS departure_sec,
			       ((%[1]s - ?) %% 86400 + 86400) %% 86400 AS wait_sec
			FROM schedule
			WHERE from_station_id = ?
			  AND to_station_id = ?
			  AND is_weekend = ?
		) AS s
		WHERE wait_sec < ?
		ORDER BY wait_sec ASC, departure_sec ASC
		LIMIT ?`, d.departureSeconds)

	insertQuery := fmt.Sprintf(`
		INSERT INTO schedule (from_station_id, to_station_id, is_weekend, departure_time)
		VALUES (?, ?, ?, %s)
		ON CONFLICT DO NOTHING`, d.timeParam)

	return &ScheduleRepo{
		db:          db,
		opts:        opts,
		selectQuery: d.rebind(selectQuery),
		insertQuery: d.rebind(insertQuery),
	}
}

// SelectSchedule returns up to Limit departures from fromID towards toID that
// leave within MaxWait, nearest first. The weekend timetable is chosen by
// domain.IsWeekend at call time. No rows is not an error.
func (r *ScheduleRepo) SelectSchedule(ctx context.Context, fromID, toID int) ([]domain.ScheduleEntry, error) {
	now := r.opts.Now().In(r.opts.Location)

	rows, err := r.db.sql.QueryContext(ctx, r.selectQuery,
		domain.ClockOf(now).Seconds(),
		fromID, toID, domain.IsWeekend(now),
		int(r.opts.MaxWait/time.Second),
		r.opts.Limit,
	)
	if err != nil {
		return nil, unavailable("select schedule", err)
	}
	defer rows.Close()

	res := make([]domain.ScheduleEntry, 0, r.opts.Limit)
	for rows.Next() {
		var (
			e       domain.ScheduleEntry
			depSec  int64
			waitSec int64
		)
		if err := rows.Scan(&e.FromStationID, &e.ToStationID, &e.IsWeekend, &depSec, &waitSec); err != nil {
			return nil, unavailable("select schedule", err)
		}
		e.Departure = domain.Clock(depSec)
		e.TimeToTrain = time.Duration(waitSec) * time.Second
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("select schedule", err)
	}
	return res, nil
}

// ImportSchedule inserts timetable rows in one transaction, skipping rows that
// already exist. It returns the number of rows actually inserted.
func (r *ScheduleRepo) ImportSchedule(ctx context.Context, entries []domain.ScheduleEntry) (int, error) {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable("import schedule", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, r.insertQuery)
	if err != nil {
		return 0, unavailable("import schedule", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		res, err := stmt.ExecContext(ctx, e.FromStationID, e.ToStationID, e.IsWeekend, e.Departure.String())
		if err != nil {
			return 0, unavailable("import schedule", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, unavailable("import schedule", err)
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable("import schedule", err)
	}
	return inserted, nil
}
