package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/gatepass/internal/domain"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// DecrementSeats consumes one seat with a single conditional write. The
// WHERE clause is what makes overselling impossible: the decrement only
// commits when a seat genuinely remains.
func (r *TransactionRepository) DecrementSeats(ctx context.Context, eventID string) error {
	const stmt = `UPDATE events SET available_seats = available_seats - 1 WHERE id = $1 AND available_seats > 0`

	tag, err := r.exec(ctx, stmt, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("decrement seats: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return domain.ErrEventNotFound
	}
	return domain.ErrNoSeatsAvailable
}

// IncrementSeats releases one seat back to the pool.
func (r *TransactionRepository) IncrementSeats(ctx context.Context, eventID string) error {
	const stmt = `UPDATE events SET available_seats = available_seats + 1 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, eventID)
	if err != nil {
		return fmt.Errorf("increment seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, t domain.Transaction) error {
	const stmt = `
INSERT INTO transactions (id, event_id, user_id, status, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, t.ID, t.EventID, t.UserID, t.Status, t.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// GetOwned fetches a transaction only when the caller owns it; a foreign
// transaction and a missing one are indistinguishable.
func (r *TransactionRepository) GetOwned(ctx context.Context, id, userID string) (domain.Transaction, error) {
	const query = `
SELECT id, event_id, user_id, status, COALESCE(proof_url, ''), created_at
FROM transactions
WHERE id = $1 AND user_id = $2`

	return r.scanTransaction(r.queryRow(ctx, query, id, userID))
}

// GetForOrganizerForUpdate locks the transaction row for a decision. The
// lock serializes concurrent decisions so a seat can never be released twice.
func (r *TransactionRepository) GetForOrganizerForUpdate(ctx context.Context, id, organizerID string) (domain.Transaction, error) {
	const query = `
SELECT t.id, t.event_id, t.user_id, t.status, COALESCE(t.proof_url, ''), t.created_at
FROM transactions t
JOIN events e ON e.id = t.event_id
WHERE t.id = $1 AND e.organizer_id = $2
FOR UPDATE OF t`

	return r.scanTransaction(r.queryRow(ctx, query, id, organizerID))
}

func (r *TransactionRepository) SetProofOwned(ctx context.Context, id, userID, proofURL string, status domain.TransactionStatus) error {
	const stmt = `UPDATE transactions SET proof_url = $3, status = $4 WHERE id = $1 AND user_id = $2`

	tag, err := r.exec(ctx, stmt, id, userID, proofURL, status)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrTransactionNotFound
		}
		return fmt.Errorf("set proof: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	const stmt = `UPDATE transactions SET status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]domain.TransactionDetail, error) {
	const query = `
SELECT t.id, t.event_id, t.user_id, t.status, COALESCE(t.proof_url, ''), t.created_at,
       e.name, e.starts_at, e.payout_account
FROM transactions t
JOIN events e ON e.id = t.event_id
WHERE t.user_id = $1
ORDER BY t.created_at DESC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var details []domain.TransactionDetail
	for rows.Next() {
		var d domain.TransactionDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.UserID, &d.Status, &d.ProofURL, &d.CreatedAt,
			&d.EventName, &d.EventStartsAt, &d.PayoutAccount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		details = append(details, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate transactions: %w", rows.Err())
	}
	return details, nil
}

func (r *TransactionRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]domain.TransactionDetail, error) {
	const query = `
SELECT t.id, t.event_id, t.user_id, t.status, COALESCE(t.proof_url, ''), t.created_at,
       e.name, e.starts_at, e.payout_account, u.name, u.email
FROM transactions t
JOIN events e ON e.id = t.event_id
JOIN users u ON u.id = t.user_id
WHERE e.organizer_id = $1
ORDER BY t.created_at DESC`

	rows, err := r.query(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list organizer transactions: %w", err)
	}
	defer rows.Close()

	var details []domain.TransactionDetail
	for rows.Next() {
		var d domain.TransactionDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.UserID, &d.Status, &d.ProofURL, &d.CreatedAt,
			&d.EventName, &d.EventStartsAt, &d.PayoutAccount, &d.BuyerName, &d.BuyerEmail); err != nil {
			return nil, fmt.Errorf("scan organizer transaction: %w", err)
		}
		details = append(details, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate organizer transactions: %w", rows.Err())
	}
	return details, nil
}

func (r *TransactionRepository) GetDetailOwned(ctx context.Context, id, userID string) (domain.TransactionDetail, error) {
	const query = `
SELECT t.id, t.event_id, t.user_id, t.status, COALESCE(t.proof_url, ''), t.created_at,
       e.name, e.starts_at, e.payout_account, u.name, u.email
FROM transactions t
JOIN events e ON e.id = t.event_id
JOIN users u ON u.id = t.user_id
WHERE t.id = $1 AND t.user_id = $2`

	var d domain.TransactionDetail
	err := r.queryRow(ctx, query, id, userID).
		Scan(&d.ID, &d.EventID, &d.UserID, &d.Status, &d.ProofURL, &d.CreatedAt,
			&d.EventName, &d.EventStartsAt, &d.PayoutAccount, &d.BuyerName, &d.BuyerEmail)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.TransactionDetail{}, domain.ErrTransactionNotFound
		}
		return domain.TransactionDetail{}, fmt.Errorf("get transaction detail: %w", err)
	}
	return d, nil
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.EventID, &t.UserID, &t.Status, &t.ProofURL, &t.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TransactionRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *TransactionRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
