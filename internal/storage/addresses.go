package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"shipbot/core/logger"
)

// ErrNotFound is returned when a lookup or delete targets a missing row.
var ErrNotFound = errors.New("storage: address not found")

// Address is one saved shipping address.
type Address struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	FullName    string    `db:"full_name"`
	FullAddress string    `db:"full_address"`
	PhoneNumber string    `db:"phone_number"`
	Email       string    `db:"email"`
	CreatedAt   time.Time `db:"created_at"`
}

// AddressInput carries the collected dialog answers into a save.
type AddressInput struct {
	FullName    string
	FullAddress string
	PhoneNumber string
	Email       string
}

const logActionSaveAddress = "SAVE_ADDRESS"

// Addresses is the Postgres repository for owners and their addresses.
type Addresses struct {
	db *sqlx.DB
}

// NewAddresses wires the repository to a connected database.
func NewAddresses(db *sqlx.DB) *Addresses {
	return &Addresses{db: db}
}

// SaveAddress upserts the owner row, creates the address, and writes an
// audit log entry, all in one transaction.
func (r *Addresses) SaveAddress(ctx context.Context, telegramID int64, username string, in AddressInput) (*Address, error) {
	start := time.Now()

	addr, err := r.saveTx(ctx, telegramID, username, in)
	if err != nil {
		logger.LogEvent(ctx, logger.SVCAddresses, slog.LevelWarn, "address.save_failed",
			slog.Int64("owner", telegramID),
			slog.Bool("constraint", IsConstraintViolation(err)),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	logger.LogEvent(ctx, logger.SVCAddresses, slog.LevelInfo, "address.save",
		slog.Int64("owner", telegramID),
		slog.Int64("address_id", addr.ID),
		slog.Duration("took", logger.RoundMS(logger.Took(start))),
	)
	return addr, nil
}

func (r *Addresses) saveTx(ctx context.Context, telegramID int64, username string, in AddressInput) (*Address, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("save address: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID int64
	err = tx.GetContext(ctx, &userID, `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id)
		DO UPDATE SET username = EXCLUDED.username, updated_at = now()
		RETURNING id`,
		telegramID, username,
	)
	if err != nil {
		return nil, fmt.Errorf("save address: upsert user: %w", err)
	}

	var addr Address
	err = tx.GetContext(ctx, &addr, `
		INSERT INTO addresses (user_id, full_name, full_address, phone_number, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, full_name, full_address, phone_number, email, created_at`,
		userID, in.FullName, in.FullAddress, in.PhoneNumber, in.Email,
	)
	if err != nil {
		return nil, fmt.Errorf("save address: insert: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bot_logs (id, action, details, user_id)
		VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), logActionSaveAddress, fmt.Sprintf("saved a new address for %s", username), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("save address: audit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save address: commit: %w", err)
	}
	return &addr, nil
}

// ListByOwner returns the owner's addresses newest-first. A user with no
// saved addresses gets an empty slice, not an error.
func (r *Addresses) ListByOwner(ctx context.Context, telegramID int64) ([]Address, error) {
	addrs := []Address{}
	err := r.db.SelectContext(ctx, &addrs, `
		SELECT a.id, a.user_id, a.full_name, a.full_address, a.phone_number, a.email, a.created_at
		FROM addresses a
		JOIN users u ON u.id = a.user_id
		WHERE u.telegram_id = $1
		ORDER BY a.created_at DESC, a.id DESC`,
		telegramID,
	)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addrs, nil
}

// DeleteAllByOwner removes every address the owner has saved and returns
// the number of rows removed. Zero is a valid result.
func (r *Addresses) DeleteAllByOwner(ctx context.Context, telegramID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM addresses a
		USING users u
		WHERE u.id = a.user_id AND u.telegram_id = $1`,
		telegramID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete addresses: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete addresses: rows affected: %w", err)
	}
	logger.LogEvent(ctx, logger.SVCAddresses, slog.LevelInfo, "address.delete_all",
		slog.Int64("owner", telegramID),
		slog.Int64("count", count),
	)
	return count, nil
}

// DeleteByID removes a single address row.
func (r *Addresses) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address %d: %w", id, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete address %d: rows affected: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("delete address %d: %w", id, ErrNotFound)
	}
	return nil
}

// IsConstraintViolation reports whether err is a Postgres integrity
// constraint failure (class 23), as opposed to a connectivity problem.
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}
