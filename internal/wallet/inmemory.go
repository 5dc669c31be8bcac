package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu           sync.RWMutex
	balances     map[string]int64
	transactions []Transaction
}

// NewMemoryStore creates a concurrency-safe in-memory wallet store useful for
// unit tests and local development.
func NewMemoryStore() Store {
	return &memoryStore{balances: make(map[string]int64)}
}

func (s *memoryStore) Balance(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Unknown users read as zero; registration does not touch the store.
	return s.balances[userID], nil
}

func (s *memoryStore) Deposit(_ context.Context, userID string, amount int64, description string) (Transaction, int64, error) {
	if amount <= 0 {
		return Transaction{}, 0, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.balances[userID] + amount
	s.balances[userID] = balance

	record := Transaction{
		ID:          uuid.New().String(),
		ReceiverID:  &userID,
		Amount:      amount,
		Kind:        KindCredit,
		Description: description,
		Status:      StatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}
	s.transactions = append(s.transactions, record)

	return record, balance, nil
}

func (s *memoryStore) Transfer(_ context.Context, senderID, receiverID string, amount int64, description string) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if senderID == receiverID {
		return TransferResult{}, ErrSelfTransfer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	senderBalance := s.balances[senderID]
	receiverBalance := s.balances[receiverID]

	if senderBalance < amount {
		return TransferResult{}, ErrInsufficientBalance
	}

	senderBalance -= amount
	receiverBalance += amount
	s.balances[senderID] = senderBalance
	s.balances[receiverID] = receiverBalance

	now := time.Now().UTC()
	debit := Transaction{
		ID:          uuid.New().String(),
		SenderID:    &senderID,
		ReceiverID:  &receiverID,
		Amount:      amount,
		Kind:        KindDebit,
		Description: description,
		Status:      StatusCompleted,
		CreatedAt:   now,
	}
	credit := Transaction{
		ID:          uuid.New().String(),
		SenderID:    &senderID,
		ReceiverID:  &receiverID,
		Amount:      amount,
		Kind:        KindCredit,
		Description: description,
		Status:      StatusCompleted,
		CreatedAt:   now,
	}
	s.transactions = append(s.transactions, debit, credit)

	return TransferResult{Debit: debit, Credit: credit, SenderBalance: senderBalance, ReceiverBalance: receiverBalance}, nil
}

func (s *memoryStore) TransactionsFor(_ context.Context, userID string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Records are appended in commit order, so walking backwards yields
	// newest first.
	var result []Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		record := s.transactions[i]
		switch record.Kind {
		case KindDebit:
			if record.SenderID != nil && *record.SenderID == userID {
				result = append(result, record)
			}
		case KindCredit:
			if record.ReceiverID != nil && *record.ReceiverID == userID {
				result = append(result, record)
			}
		}
	}
	return result, nil
}
