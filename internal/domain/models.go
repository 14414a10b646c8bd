package domain

import (
	"fmt"
	"time"
)

// Station is a metro station. Reference data, read-only for the bot.
type Station struct {
	ID   int
	Name string
}

// ScheduleEntry is a single departure between two stations.
type ScheduleEntry struct {
	FromStationID int
	ToStationID   int
	IsWeekend     bool
	Departure     Clock
	TimeToTrain   time.Duration // computed at query time, zero for imported rows
}

// BotUser is the Telegram profile saved on first contact.
type BotUser struct {
	ID        int64
	FirstName string
	LastName  string // optional
	Username  string // optional
	IsBot     bool
	CreatedAt time.Time
}

// Favorite is a route saved by a user.
type Favorite struct {
	ID            int64
	BotUserID     int64
	FromStationID int
	ToStationID   int
}

// Validate checks the from != to invariant of a timetable row.
func (e ScheduleEntry) Validate() error {
	if e.FromStationID == e.ToStationID {
		return fmt.Errorf("schedule entry: from and to station are both %d", e.FromStationID)
	}
	if e.Departure < 0 || e.Departure >= secondsPerDay {
		return fmt.Errorf("schedule entry: departure %d out of range", int(e.Departure))
	}
	return nil
}
