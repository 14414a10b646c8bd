// Package timetable reads metro timetables and station lists from CSV.
//
// Expected headers (any column order):
//
//	from_station_id,to_station_id,is_weekend,departure_time
//	id,name
package timetable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

var (
	scheduleColumns = []string{"from_station_id", "to_station_id", "is_weekend", "departure_time"}
	stationColumns  = []string{"id", "name"}
)

// Parse reads every timetable row of r. The first malformed row aborts parsing.
func Parse(r io.Reader) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	err := readRows(r, scheduleColumns, func(record []string, cols map[string]int) error {
		e, err := parseRecord(record, cols)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseStations reads a station list. Ids must be positive and unique.
func ParseStations(r io.Reader) ([]domain.Station, error) {
	var list []domain.Station
	seen := make(map[int]bool)
	err := readRows(r, stationColumns, func(record []string, cols map[string]int) error {
		id, err := strconv.Atoi(field(record, cols, "id"))
		if err != nil || id <= 0 {
			return fmt.Errorf("id: invalid %q", field(record, cols, "id"))
		}
		if seen[id] {
			return fmt.Errorf("id: duplicate %d", id)
		}
		name := field(record, cols, "name")
		if name == "" {
			return errors.New("name: empty")
		}
		seen[id] = true
		list = append(list, domain.Station{ID: id, Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// readRows checks the header for required columns and calls fn for every record.
func readRows(r io.Reader, required []string, fn func(record []string, cols map[string]int) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(record, cols); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func parseRecord(record []string, cols map[string]int) (domain.ScheduleEntry, error) {
	var e domain.ScheduleEntry
	var err error
	if e.FromStationID, err = strconv.Atoi(field(record, cols, "from_station_id")); err != nil {
		return e, fmt.Errorf("from_station_id: %w", err)
	}
	if e.ToStationID, err = strconv.Atoi(field(record, cols, "to_station_id")); err != nil {
		return e, fmt.Errorf("to_station_id: %w", err)
	}
	if e.IsWeekend, err = strconv.ParseBool(field(record, cols, "is_weekend")); err != nil {
		return e, fmt.Errorf("is_weekend: %w", err)
	}
	if e.Departure, err = domain.ParseClock(field(record, cols, "departure_time")); err != nil {
		return e, fmt.Errorf("departure_time: %w", err)
	}
	return e, e.Validate()
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.TrimSpace(col)] = i
	}
	return m
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
