package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/db"
)

// SQL is a ledger backed by the balances and ledger_entries tables
type SQL struct {
	db     *sql.DB
	driver string
}

var _ Ledger = (*SQL)(nil)

// NewSQL returns a ledger using dbh
// driver is db.DriverPostgres or db.DriverSQLite
func NewSQL(dbh *sql.DB, driver string) *SQL {
	return &SQL{
		db:     dbh,
		driver: driver,
	}
}

func (s *SQL) q(query string) string {
	return db.Rebind(s.driver, query)
}

// Debit removes amount from the occupant's balance
func (s *SQL) Debit(ctx context.Context, occupant string, amount int, reason string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		const query = `
UPDATE balances
SET balance = balance - ?, updated = CURRENT_TIMESTAMP
WHERE occupant = ? AND balance >= ?`
		res, err := tx.ExecContext(ctx, s.q(query), amount, occupant, amount)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if n == 0 {
			return ErrInsufficientFunds
		}

		return s.addEntry(ctx, tx, occupant, -amount, reason)
	})
}

// Credit adds amount to the occupant's balance
func (s *SQL) Credit(ctx context.Context, occupant string, amount int, reason string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		const query = `
INSERT INTO balances (occupant, balance) VALUES (?, ?)
ON CONFLICT (occupant) DO UPDATE SET balance = balances.balance + excluded.balance, updated = CURRENT_TIMESTAMP`
		if _, err := tx.ExecContext(ctx, s.q(query), occupant, amount); err != nil {
			return err
		}

		return s.addEntry(ctx, tx, occupant, amount, reason)
	})
}

// Balance returns the occupant's balance
func (s *SQL) Balance(ctx context.Context, occupant string) (int, error) {
	const query = `SELECT balance FROM balances WHERE occupant = ?`

	var balance int
	err := s.db.QueryRowContext(ctx, s.q(query), occupant).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	return balance, err
}

func (s *SQL) addEntry(ctx context.Context, tx *sql.Tx, occupant string, amount int, reason string) error {
	const query = `INSERT INTO ledger_entries (occupant, amount, reason) VALUES (?, ?, ?)`
	_, err := tx.ExecContext(ctx, s.q(query), occupant, amount, reason)
	return err
}

func (s *SQL) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
