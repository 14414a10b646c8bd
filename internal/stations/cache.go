package stations

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
	"github.com/Whitenz/next-train-telegram-bot/internal/store"
)

var ErrNoStations = errors.New("no stations in store")

// Cache is an in-memory snapshot of the station list. It is filled by
// Refresh and never refreshed on its own; reads are safe from any goroutine.
type Cache struct {
	repo store.Stations

	mu     sync.RWMutex
	list   []domain.Station
	byID   map[int]string
	loaded bool
}

func New(repo store.Stations) *Cache {
	return &Cache{repo: repo, byID: map[int]string{}}
}

// Refresh reloads the snapshot from the store. On error the old snapshot stays.
func (c *Cache) Refresh(ctx context.Context) error {
	list, err := c.repo.SelectStations(ctx)
	if err != nil {
		return fmt.Errorf("refresh stations: %w", err)
	}
	if len(list) < 2 {
		return ErrNoStations
	}
	byID := make(map[int]string, len(list))
	for _, s := range list {
		byID[s.ID] = s.Name
	}

	c.mu.Lock()
	c.list, c.byID, c.loaded = list, byID, true
	c.mu.Unlock()
	return nil
}

// Loaded reports whether Refresh has succeeded at least once.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// All returns the stations in line order. The slice must not be modified.
func (c *Cache) All() []domain.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list
}

// Name returns the station name by id.
func (c *Cache) Name(id int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.byID[id]
	return name, ok
}

// Terminals returns the first and the last station of the line.
func (c *Cache) Terminals() (first, last domain.Station) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.list) == 0 {
		return domain.Station{}, domain.Station{}
	}
	return c.list[0], c.list[len(c.list)-1]
}

// EndDirection returns the only possible destination for a terminal station:
// the opposite terminal. ok is false for intermediate stations.
func (c *Cache) EndDirection(fromID int) (toID int, ok bool) {
	first, last := c.Terminals()
	switch fromID {
	case first.ID:
		return last.ID, first.ID != 0
	case last.ID:
		return first.ID, last.ID != 0
	}
	return 0, false
}

// Direction renders "A ➡ B" for a pair of station ids.
func (c *Cache) Direction(fromID, toID int) string {
	from, _ := c.Name(fromID)
	to, _ := c.Name(toID)
	return from + " ➡ " + to
}
