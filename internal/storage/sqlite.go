// Package storage is the token ledger: per-user balances plus the payment
// bookkeeping that used to live in process-wide maps (applied charges,
// pending invoice messages).
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"video-gen-bot/internal/models"
)

// ErrInsufficientBalance is returned by DebitTokens when the user's
// balance is below the requested amount. The balance is left untouched.
var ErrInsufficientBalance = errors.New("insufficient token balance")

type Storage struct {
	db *sql.DB
}

func New(databasePath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &Storage{db: db}
	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return storage, nil
}

func (s *Storage) initDB() error {
	query := `
    CREATE TABLE IF NOT EXISTS users (
        user_id INTEGER PRIMARY KEY,
        tokens INTEGER NOT NULL DEFAULT 0 CHECK (tokens >= 0)
    );
    CREATE TABLE IF NOT EXISTS applied_charges (
        charge_id TEXT PRIMARY KEY
    );
    CREATE TABLE IF NOT EXISTS invoice_messages (
        user_id INTEGER PRIMARY KEY,
        message_id INTEGER NOT NULL
    );`
	_, err := s.db.Exec(query)
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// GetUser returns the user's ledger row, or nil if the user is unknown.
func (s *Storage) GetUser(userID int64) (*models.User, error) {
	user := &models.User{ID: userID}

	err := s.db.QueryRow(`SELECT tokens FROM users WHERE user_id = ?`, userID).Scan(&user.Tokens)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", userID, err)
	}
	return user, nil
}

func (s *Storage) CreateUser(userID int64) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO users (user_id, tokens) VALUES (?, 0)`, userID)
	if err != nil {
		return fmt.Errorf("failed to create user %d: %w", userID, err)
	}
	log.Printf("User %d created in ledger", userID)
	return nil
}

func (s *Storage) SetTokens(userID int64, tokens int) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO users (user_id, tokens) VALUES (?, ?)`, userID, tokens)
	if err != nil {
		return fmt.Errorf("failed to set balance for user %d: %w", userID, err)
	}
	return nil
}

// AddTokens credits (or, with a negative delta, adjusts) the balance as a
// single in-database increment, so concurrent settlements never lose an
// update.
func (s *Storage) AddTokens(userID int64, delta int) error {
	_, err := s.db.Exec(`UPDATE users SET tokens = tokens + ? WHERE user_id = ?`, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to add %d tokens to user %d: %w", delta, userID, err)
	}
	log.Printf("User %d credited %d tokens", userID, delta)
	return nil
}

// DebitTokens withdraws amount from the user's balance. The guard is part
// of the UPDATE itself: a balance below amount changes no rows and reports
// ErrInsufficientBalance.
func (s *Storage) DebitTokens(userID int64, amount int) error {
	res, err := s.db.Exec(
		`UPDATE users SET tokens = tokens - ? WHERE user_id = ? AND tokens >= ?`,
		amount, userID, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to debit %d tokens from user %d: %w", amount, userID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientBalance
	}
	log.Printf("User %d debited %d tokens", userID, amount)
	return nil
}

// MarkChargeApplied records a payment charge id and reports whether it was
// new. A false result means the charge was already credited once.
func (s *Storage) MarkChargeApplied(chargeID string) (bool, error) {
	res, err := s.db.Exec(`INSERT OR IGNORE INTO applied_charges (charge_id) VALUES (?)`, chargeID)
	if err != nil {
		return false, fmt.Errorf("failed to record charge %s: %w", chargeID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetInvoiceMessage remembers the last invoice message shown to a user, so
// a newer invoice can replace it.
func (s *Storage) SetInvoiceMessage(userID int64, messageID int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO invoice_messages (user_id, message_id) VALUES (?, ?)`,
		userID, messageID,
	)
	if err != nil {
		return fmt.Errorf("failed to store invoice message for user %d: %w", userID, err)
	}
	return nil
}

// TakeInvoiceMessage pops the stored invoice message id for a user, if any.
func (s *Storage) TakeInvoiceMessage(userID int64) (int, bool, error) {
	var messageID int
	err := s.db.QueryRow(`SELECT message_id FROM invoice_messages WHERE user_id = ?`, userID).Scan(&messageID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query invoice message for user %d: %w", userID, err)
	}

	if _, err := s.db.Exec(`DELETE FROM invoice_messages WHERE user_id = ?`, userID); err != nil {
		return 0, false, err
	}
	return messageID, true, nil
}
