package wallet

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAmount occurs when an operation is requested with a
	// non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance occurs when the sender's balance cannot cover a
	// requested transfer.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrReceiverNotFound indicates the receiver phone number does not
	// resolve to a registered user.
	ErrReceiverNotFound = errors.New("receiver not found")

	// ErrSelfTransfer indicates sender and receiver are the same user.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrUserNotFound indicates a balance operation referenced an unknown user.
	ErrUserNotFound = errors.New("user not found")
)

// Store is the contract implemented by wallet backends. Every mutation is an
// all-or-nothing unit of work: the balance change and its transaction records
// commit together or not at all, and conflicting transfers against the same
// sender are serialized so the balance never goes negative.
type Store interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Deposit(ctx context.Context, userID string, amount int64, description string) (Transaction, int64, error)
	Transfer(ctx context.Context, senderID, receiverID string, amount int64, description string) (TransferResult, error)
	TransactionsFor(ctx context.Context, userID string) ([]Transaction, error)
}
