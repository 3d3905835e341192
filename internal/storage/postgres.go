package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

var postgresTracer = otel.Tracer("salonbot.internal.storage.postgres")

// pgDB is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type pgDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps appointments in a single appointments table.
type PostgresStore struct {
	db pgDB
}

// NewPostgresStore creates a store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("storage: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting mocks for tests.
func NewPostgresStoreWithDB(db pgDB) *PostgresStore {
	return &PostgresStore{db: db}
}

const listByDateSQL = `
SELECT id, full_name, phone, services, starts_at
FROM appointments
WHERE starts_at >= $1 AND starts_at < $2
ORDER BY starts_at`

const insertSQL = `
INSERT INTO appointments (id, full_name, phone, services, starts_at)
VALUES ($1, $2, $3, $4, $5)`

// ListByDate returns the records starting on the given UTC day.
func (s *PostgresStore) ListByDate(ctx context.Context, date time.Time) ([]Record, error) {
	ctx, span := postgresTracer.Start(ctx, "storage.postgres.list_by_date")
	defer span.End()

	y, m, d := date.UTC().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := s.db.Query(ctx, listByDateSQL, dayStart, dayEnd)
	if err != nil {
		span.RecordError(err)
		return nil, backendErr("postgres list", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.FullName, &rec.Phone, &rec.Services, &rec.StartsAt); err != nil {
			span.RecordError(err)
			return nil, backendErr("postgres scan", err)
		}
		rec.StartsAt = rec.StartsAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, backendErr("postgres rows", err)
	}
	return records, nil
}

// Create inserts one record and returns its generated id.
func (s *PostgresStore) Create(ctx context.Context, rec Record) (string, error) {
	ctx, span := postgresTracer.Start(ctx, "storage.postgres.create")
	defer span.End()

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := s.db.Exec(ctx, insertSQL, id, rec.FullName, rec.Phone, rec.Services, rec.StartsAt.UTC()); err != nil {
		span.RecordError(err)
		return "", backendErr("postgres insert", err)
	}
	return id, nil
}
