package stations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

type fakeRepo struct {
	stations []domain.Station
	err      error
	calls    int
}

func (f *fakeRepo) SelectStations(context.Context) ([]domain.Station, error) {
	f.calls++
	return f.stations, f.err
}

var line = []domain.Station{
	{ID: 1, Name: "Проспект Космонавтов"},
	{ID: 2, Name: "Уралмаш"},
	{ID: 5, Name: "Динамо"},
	{ID: 9, Name: "Ботаническая"},
}

func TestCache_Refresh(t *testing.T) {
	repo := &fakeRepo{stations: line}
	c := New(repo)
	require.False(t, c.Loaded())

	require.NoError(t, c.Refresh(context.Background()))
	require.True(t, c.Loaded())
	assert.Len(t, c.All(), 4)

	name, ok := c.Name(5)
	assert.True(t, ok)
	assert.Equal(t, "Динамо", name)

	_, ok = c.Name(42)
	assert.False(t, ok)

	// reads never hit the store
	c.All()
	c.Name(1)
	assert.Equal(t, 1, repo.calls)
}

func TestCache_RefreshErrorKeepsSnapshot(t *testing.T) {
	repo := &fakeRepo{stations: line}
	c := New(repo)
	require.NoError(t, c.Refresh(context.Background()))

	repo.err = errors.New("boom")
	require.Error(t, c.Refresh(context.Background()))
	assert.Len(t, c.All(), 4)
}

func TestCache_RefreshRejectsEmptyList(t *testing.T) {
	c := New(&fakeRepo{})
	require.ErrorIs(t, c.Refresh(context.Background()), ErrNoStations)
	assert.False(t, c.Loaded())
}

func TestCache_Directions(t *testing.T) {
	c := New(&fakeRepo{stations: line})
	require.NoError(t, c.Refresh(context.Background()))

	first, last := c.Terminals()
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 9, last.ID)

	to, ok := c.EndDirection(1)
	assert.True(t, ok)
	assert.Equal(t, 9, to)

	to, ok = c.EndDirection(9)
	assert.True(t, ok)
	assert.Equal(t, 1, to)

	_, ok = c.EndDirection(5)
	assert.False(t, ok)

	assert.Equal(t, "Уралмаш ➡ Ботаническая", c.Direction(2, 9))
}
