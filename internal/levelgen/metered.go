package levelgen

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/stubro-ai/stubro/internal/games/adventure"
)

// Wallet is the credit balance a Metered generator charges.
// Debit must fail with an error wrapping ErrInsufficientCredits rather than
// let the balance go negative.
type Wallet interface {
	Balance(user string) (int, error)
	Debit(user string, amount int) error
}

// Metered charges a user for each successfully generated level.
type Metered struct {
	next   Generator
	wallet Wallet
	user   string
	cost   int
	logger *log.Logger
}

// NewMetered wraps next so every level costs cost credits from user's wallet.
func NewMetered(next Generator, wallet Wallet, user string, cost int, logger *log.Logger) *Metered {
	if logger == nil {
		logger = log.Default()
	}
	return &Metered{
		next:   next,
		wallet: wallet,
		user:   user,
		cost:   cost,
		logger: logger.WithPrefix("credits"),
	}
}

// Generate checks the balance up front, generates, then debits. A failed
// generation is never charged.
func (m *Metered) Generate(ctx context.Context, studyText string) (*adventure.Level, error) {
	balance, err := m.wallet.Balance(m.user)
	if err != nil {
		return nil, fmt.Errorf("levelgen: read balance: %w", err)
	}
	if balance < m.cost {
		m.logger.Info("not enough credits", "user", m.user, "balance", balance, "cost", m.cost)
		return nil, fmt.Errorf("%w: balance %d, level costs %d", ErrInsufficientCredits, balance, m.cost)
	}

	level, err := m.next.Generate(ctx, studyText)
	if err != nil {
		return nil, err
	}

	if err := m.wallet.Debit(m.user, m.cost); err != nil {
		return nil, fmt.Errorf("levelgen: charge level: %w", err)
	}
	m.logger.Debug("level charged", "user", m.user, "cost", m.cost, "balance", balance-m.cost)
	return level, nil
}
