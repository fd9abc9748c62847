package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/gatepass/internal/domain"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, organizer_id, name, description, price, available_seats, starts_at, ends_at, payout_account, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.OrganizerID,
		event.Name,
		event.Description,
		event.Price,
		event.AvailableSeats,
		event.StartsAt,
		event.EndsAt,
		event.PayoutAccount,
		event.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEventDetail(ctx context.Context, id string) (domain.EventDetail, error) {
	const query = `
SELECT e.id, e.organizer_id, e.name, e.description, e.price, e.available_seats,
       e.starts_at, e.ends_at, e.payout_account, e.created_at, u.name
FROM events e
JOIN users u ON u.id = e.organizer_id
WHERE e.id = $1`

	var d domain.EventDetail
	err := r.queryRow(ctx, query, id).
		Scan(&d.ID, &d.OrganizerID, &d.Name, &d.Description, &d.Price, &d.AvailableSeats,
			&d.StartsAt, &d.EndsAt, &d.PayoutAccount, &d.CreatedAt, &d.OrganizerName)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.EventDetail{}, domain.ErrEventNotFound
		}
		return domain.EventDetail{}, fmt.Errorf("get event: %w", err)
	}
	return d, nil
}

// GetEventOwnedForUpdate locks the event row for an owner-only patch. A row
// belonging to another organizer reads as missing.
func (r *EventRepository) GetEventOwnedForUpdate(ctx context.Context, id, organizerID string) (domain.Event, error) {
	const query = `
SELECT id, organizer_id, name, description, price, available_seats, starts_at, ends_at, payout_account, created_at
FROM events
WHERE id = $1 AND organizer_id = $2
FOR UPDATE`

	var e domain.Event
	err := r.queryRow(ctx, query, id, organizerID).
		Scan(&e.ID, &e.OrganizerID, &e.Name, &e.Description, &e.Price, &e.AvailableSeats,
			&e.StartsAt, &e.EndsAt, &e.PayoutAccount, &e.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return e, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET name = $2, description = $3, price = $4, available_seats = $5,
    starts_at = $6, ends_at = $7, payout_account = $8
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		event.ID,
		event.Name,
		event.Description,
		event.Price,
		event.AvailableSeats,
		event.StartsAt,
		event.EndsAt,
		event.PayoutAccount,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.EventDetail, error) {
	const query = `
SELECT e.id, e.organizer_id, e.name, e.description, e.price, e.available_seats,
       e.starts_at, e.ends_at, e.payout_account, e.created_at, u.name
FROM events e
JOIN users u ON u.id = e.organizer_id
ORDER BY e.starts_at ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var details []domain.EventDetail
	for rows.Next() {
		var d domain.EventDetail
		if err := rows.Scan(&d.ID, &d.OrganizerID, &d.Name, &d.Description, &d.Price, &d.AvailableSeats,
			&d.StartsAt, &d.EndsAt, &d.PayoutAccount, &d.CreatedAt, &d.OrganizerName); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		details = append(details, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return details, nil
}

func (r *EventRepository) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error) {
	const query = `
SELECT id, organizer_id, name, description, price, available_seats, starts_at, ends_at, payout_account, created_at
FROM events
WHERE organizer_id = $1
ORDER BY starts_at ASC`

	rows, err := r.query(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.OrganizerID, &e.Name, &e.Description, &e.Price, &e.AvailableSeats,
			&e.StartsAt, &e.EndsAt, &e.PayoutAccount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organizer event: %w", err)
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate organizer events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
