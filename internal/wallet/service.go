package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/pay-link/paylink/internal/cache"
	"github.com/pay-link/paylink/internal/identity"
	"github.com/pay-link/paylink/internal/notification"
)

const depositDescription = "Added money to wallet"

// Service exposes the money-movement operations. All preconditions that
// depend on balance state are enforced inside the store under its locks; the
// service handles receiver resolution, notifications and cache upkeep.
type Service struct {
	store    Store
	users    identity.Repository
	notifier notification.Notifier
	history  *cache.History
}

// NewService constructs a wallet service. notifier and history may be nil.
func NewService(store Store, users identity.Repository, notifier notification.Notifier, history *cache.History) *Service {
	return &Service{store: store, users: users, notifier: notifier, history: history}
}

// Balance returns the user's current balance.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.store.Balance(ctx, userID)
}

// Deposit adds funds to the user's balance and records one credit transaction.
func (s *Service) Deposit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	_, balance, err := s.store.Deposit(ctx, userID, amount, depositDescription)
	if err != nil {
		return 0, err
	}

	_ = s.history.Invalidate(ctx, userID)

	return balance, nil
}

// Transfer moves funds from the sender to the user registered under
// receiverPhone and records the paired debit/credit transactions. It returns
// the sender's new balance.
func (s *Service) Transfer(ctx context.Context, sender identity.User, receiverPhone string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	receiver, err := s.users.FindByPhone(ctx, receiverPhone)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return 0, ErrReceiverNotFound
		}
		return 0, err
	}
	if receiver.ID == sender.ID {
		return 0, ErrSelfTransfer
	}

	result, err := s.store.Transfer(ctx, sender.ID, receiver.ID, amount, description)
	if err != nil {
		return 0, err
	}

	_ = s.history.Invalidate(ctx, sender.ID, receiver.ID)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: receiver.ID,
			Body:        fmt.Sprintf("You received %d from %s", amount, sender.Phone),
		})
	}

	return result.SenderBalance, nil
}

// Transactions returns the user's history, newest first. Results are served
// from the cache when possible.
func (s *Service) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	var cached []Transaction
	if s.history.Get(ctx, userID, &cached) {
		return cached, nil
	}

	transactions, err := s.store.TransactionsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	_ = s.history.Set(ctx, userID, transactions)

	return transactions, nil
}
