package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// querier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db querier) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Insert adds a new row. A unique violation on the email index is mapped to
// ErrDuplicateEmail so callers can skip pointless retries.
func (r *PostgresRepository) Insert(ctx context.Context, payload *NewLead) (*Lead, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, email, phone, birthday, preferences, promo_code)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRow(ctx, query,
		id,
		payload.Name,
		NormalizeEmail(payload.Email),
		payload.Phone,
		payload.Birthday,
		payload.Preferences,
		payload.PromoCode,
	).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:          id.String(),
		Name:        payload.Name,
		Email:       NormalizeEmail(payload.Email),
		Phone:       payload.Phone,
		Birthday:    payload.Birthday,
		Preferences: payload.Preferences,
		PromoCode:   payload.PromoCode,
		CreatedAt:   createdAt,
	}, nil
}

// ExistsByEmail checks for an existing lead with the same normalized email.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM leads WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("leads: duplicate check failed: %w", err)
	}
	return exists, nil
}

// Ping reports store reachability.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("leads: %w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
