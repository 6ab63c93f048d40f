package merchant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/alovak/cardflow-accept/merchant/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
)

var ErrNotFound = fmt.Errorf("not found")

var ErrConflict = fmt.Errorf("conflict")

// MemoryCapacity is how many entries the in-memory journal keeps; older
// entries are dropped first.
const MemoryCapacity = 10_000

// Repository is the payment journal. With a nil db it keeps entries in
// memory, otherwise it writes to merchant.payments.
type Repository struct {
	mu      sync.RWMutex
	entries  []*models.JournalEntry
	ids      map[string]struct{}
	capacity int

	db *sql.DB
}

func NewRepository() *Repository {
	return &Repository{
		entries:  make([]*models.JournalEntry, 0),
		ids:      make(map[string]struct{}),
		capacity: MemoryCapacity,
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const createJournalTable = `
CREATE SCHEMA IF NOT EXISTS merchant;
CREATE TABLE IF NOT EXISTS merchant.payments (
    payment_id     uuid PRIMARY KEY,
    request_id     text NOT NULL DEFAULT '',
    amount         numeric(19,4) NOT NULL,
    currency       char(3) NOT NULL,
    success        boolean NOT NULL,
    transaction_id text NOT NULL DEFAULT '',
    auth_code      text NOT NULL DEFAULT '',
    error_code     text NOT NULL DEFAULT '',
    error_message  text NOT NULL DEFAULT '',
    created_at     timestamptz NOT NULL DEFAULT now()
)`

// Migrate creates the journal table when running against postgres.
func (r *Repository) Migrate(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, createJournalTable); err != nil {
		return fmt.Errorf("creating journal table: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, entry *models.JournalEntry) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.ids[entry.ID]; ok {
			return fmt.Errorf("journal entry %s: %w", entry.ID, ErrConflict)
		}
		if len(r.entries) >= r.capacity {
			drop := len(r.entries) - r.capacity + 1
			for _, e := range r.entries[:drop] {
				delete(r.ids, e.ID)
			}
			r.entries = append(r.entries[:0:0], r.entries[drop:]...)
		}
		r.entries = append(r.entries, entry)
		r.ids[entry.ID] = struct{}{}
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO merchant.payments(payment_id, request_id, amount, currency, success,
                                      transaction_id, auth_code, error_code, error_message, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, entry.ID, entry.RequestID, entry.Amount.String(), entry.Currency, entry.Success,
		entry.TransactionID, entry.AuthCode, entry.ErrorCode, entry.ErrorMessage, entry.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("journal entry %s: %w", entry.ID, ErrConflict)
	}
	return err
}

// List returns up to limit entries, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]*models.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		out := make([]*models.JournalEntry, 0, min(limit, len(r.entries)))
		for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
			out = append(out, r.entries[i])
		}
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT payment_id, request_id, amount, currency, success,
               transaction_id, auth_code, error_code, error_message, created_at
          FROM merchant.payments
         ORDER BY created_at DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Amount, &e.Currency, &e.Success,
			&e.TransactionID, &e.AuthCode, &e.ErrorCode, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Get returns a single journal entry by id.
func (r *Repository) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, e := range r.entries {
			if e.ID == id {
				return e, nil
			}
		}
		return nil, ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var e models.JournalEntry
	err := r.db.QueryRowContext(ctx, `
        SELECT payment_id, request_id, amount, currency, success,
               transaction_id, auth_code, error_code, error_message, created_at
          FROM merchant.payments WHERE payment_id=$1`, id).Scan(&e.ID, &e.RequestID, &e.Amount, &e.Currency, &e.Success,
		&e.TransactionID, &e.AuthCode, &e.ErrorCode, &e.ErrorMessage, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Ping returns DB readiness
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
