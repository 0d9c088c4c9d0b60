package storage

import (
	"fmt"
	"time"
)

// Balance returns the user's credits. A user seen for the first time gets a
// wallet seeded with the initial balance.
func (s *Store) Balance(user string) (int, error) {
	if err := s.ensureWallet(user); err != nil {
		return 0, err
	}

	var balance int
	if err := s.db.QueryRow("SELECT balance FROM wallets WHERE user = ?", user).Scan(&balance); err != nil {
		return 0, fmt.Errorf("storage: cannot read balance: %w", err)
	}
	return balance, nil
}

// Debit takes amount credits from the user's wallet. It fails with
// ErrInsufficientCredits, leaving the balance untouched, if the wallet
// cannot cover it.
func (s *Store) Debit(user string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("storage: cannot debit a negative amount (%d)", amount)
	}
	if err := s.ensureWallet(user); err != nil {
		return err
	}

	res, err := s.db.Exec(
		"UPDATE wallets SET balance = balance - ?, updated_at = ? WHERE user = ? AND balance >= ?",
		amount, time.Now().UTC().Format(timeLayout), user, amount,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot debit wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s cannot pay %d", ErrInsufficientCredits, user, amount)
	}
	return nil
}

// Credit adds amount credits to the user's wallet and returns the new balance.
func (s *Store) Credit(user string, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("storage: credit amount must be positive, got %d", amount)
	}
	if err := s.ensureWallet(user); err != nil {
		return 0, err
	}

	_, err := s.db.Exec(
		"UPDATE wallets SET balance = balance + ?, updated_at = ? WHERE user = ?",
		amount, time.Now().UTC().Format(timeLayout), user,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot credit wallet: %w", err)
	}
	return s.Balance(user)
}

func (s *Store) ensureWallet(user string) error {
	if user == "" {
		return fmt.Errorf("storage: wallet user is empty")
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO wallets (user, balance) VALUES (?, ?)",
		user, s.initialCredits,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create wallet: %w", err)
	}
	return nil
}
