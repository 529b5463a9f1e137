package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	visited := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO route_hits").
		WithArgs("/enabling-writers", "collection", "enabling-writers", int64(1), int64(0), visited).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRouteHitRepository(mock)
	err = repo.RecordHit(context.Background(), RouteHit{
		Path:           "/enabling-writers",
		View:           "collection",
		CollectionName: "enabling-writers",
		Hits:           1,
		LastVisitedAt:  visited,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordHitWrapsErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO route_hits").WillReturnError(boom)

	err = NewRouteHitRepository(mock).RecordHit(context.Background(), RouteHit{Path: "/x", Hits: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestTopRoutes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	visited := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"path", "view", "collection_name", "hits", "embedded_hits", "last_visited_at"}).
		AddRow("/", "collection", "root.read", int64(10), int64(2), visited).
		AddRow("/player/1", "player", "", int64(3), int64(0), visited)
	mock.ExpectQuery("SELECT path, view").WithArgs(5).WillReturnRows(rows)

	hits, err := NewRouteHitRepository(mock).TopRoutes(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "root.read", hits[0].CollectionName)
	assert.Equal(t, int64(2), hits[0].EmbeddedHits)
	assert.Equal(t, "player", hits[1].View)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS route_hits").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
