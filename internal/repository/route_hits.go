package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RouteHit aggregates navigations to one path.
type RouteHit struct {
	Path           string
	View           string
	CollectionName string
	Hits           int64
	EmbeddedHits   int64
	LastVisitedAt  time.Time
}

type RouteHitRepository interface {
	RecordHit(ctx context.Context, hit RouteHit) error
	TopRoutes(ctx context.Context, limit int) ([]RouteHit, error)
}

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type routeHitRepository struct {
	db DB
}

func NewRouteHitRepository(db DB) RouteHitRepository {
	return &routeHitRepository{
		db: db,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS route_hits (
	path            TEXT PRIMARY KEY,
	view            TEXT NOT NULL,
	collection_name TEXT NOT NULL DEFAULT '',
	hits            BIGINT NOT NULL DEFAULT 0,
	embedded_hits   BIGINT NOT NULL DEFAULT 0,
	last_visited_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the route_hits table when it is missing.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create route_hits table: %w", err)
	}
	return nil
}

// RecordHit adds hit.Hits and hit.EmbeddedHits to the counters for hit.Path.
func (r *routeHitRepository) RecordHit(ctx context.Context, hit RouteHit) error {
	query := `
	INSERT INTO route_hits (path, view, collection_name, hits, embedded_hits, last_visited_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (path)
	DO UPDATE SET view = $2, collection_name = $3,
		hits = route_hits.hits + $4,
		embedded_hits = route_hits.embedded_hits + $5,
		last_visited_at = GREATEST(route_hits.last_visited_at, $6)`
	_, err := r.db.Exec(ctx, query, hit.Path, hit.View, hit.CollectionName, hit.Hits, hit.EmbeddedHits, hit.LastVisitedAt)
	if err != nil {
		return fmt.Errorf("failed to record hit for %s: %w", hit.Path, err)
	}

	return nil
}

func (r *routeHitRepository) TopRoutes(ctx context.Context, limit int) ([]RouteHit, error) {
	query := `
	SELECT path, view, collection_name, hits, embedded_hits, last_visited_at
	FROM route_hits
	ORDER BY hits DESC, path
	LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top routes: %w", err)
	}

	hits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RouteHit, error) {
		var hit RouteHit
		err := row.Scan(&hit.Path, &hit.View, &hit.CollectionName, &hit.Hits, &hit.EmbeddedHits, &hit.LastVisitedAt)
		return hit, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read top routes: %w", err)
	}

	return hits, nil
}
