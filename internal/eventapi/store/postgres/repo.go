package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

const uniqueViolation = "23505"

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the events table if it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *Repo) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, listEventsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Organizer); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Event, error) {
	var e domain.Event
	err := r.db.QueryRowContext(ctx, getEventSQL, id).
		Scan(&e.ID, &e.Name, &e.Date, &e.Location, &e.Organizer)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, domain.ErrNotFound("event not found")
	}
	if err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func (r *Repo) Create(ctx context.Context, e domain.Event) error {
	_, err := r.db.ExecContext(ctx, insertEventSQL, e.ID, e.Name, e.Date, e.Location, e.Organizer)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrConflict("event id already exists")
	}
	return err
}

func (r *Repo) Update(ctx context.Context, e domain.Event) error {
	res, err := r.db.ExecContext(ctx, updateEventSQL, e.ID, e.Name, e.Date, e.Location, e.Organizer)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteEventSQL, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("event not found")
	}
	return nil
}
