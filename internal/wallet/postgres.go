package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists balances and transaction records in PostgreSQL.
// Balance mutations lock the affected user rows with SELECT ... FOR UPDATE so
// the check-then-mutate-then-record sequence is serialized per user.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed wallet store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Balance returns the current balance for the given user.
func (s *PostgresStore) Balance(ctx context.Context, userID string) (int64, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return 0, ErrUserNotFound
	}
	var balance int64
	if err := s.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Deposit atomically increases the user's balance and appends one completed
// credit record.
func (s *PostgresStore) Deposit(ctx context.Context, userID string, amount int64, description string) (Transaction, int64, error) {
	if amount <= 0 {
		return Transaction{}, 0, ErrInvalidAmount
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return Transaction{}, 0, ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, 0, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	balance, err := lockBalance(ctx, tx, id)
	if err != nil {
		return Transaction{}, 0, err
	}
	balance += amount

	if _, err := tx.Exec(ctx, `UPDATE users SET balance = $1 WHERE id = $2`, balance, id); err != nil {
		return Transaction{}, 0, err
	}

	record := Transaction{
		ID:          uuid.New().String(),
		ReceiverID:  &userID,
		Amount:      amount,
		Kind:        KindCredit,
		Description: description,
		Status:      StatusCompleted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := insertTransaction(ctx, tx, record); err != nil {
		return Transaction{}, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, 0, err
	}

	return record, balance, nil
}

// Transfer atomically moves funds between two users and appends the paired
// debit and credit records. The balance check runs under the same row locks
// as the mutation, so concurrent transfers from one sender cannot jointly
// overdraw.
func (s *PostgresStore) Transfer(ctx context.Context, senderID, receiverID string, amount int64, description string) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	sender, err := uuid.Parse(senderID)
	if err != nil {
		return TransferResult{}, ErrUserNotFound
	}
	receiver, err := uuid.Parse(receiverID)
	if err != nil {
		return TransferResult{}, ErrReceiverNotFound
	}
	if sender == receiver {
		return TransferResult{}, ErrSelfTransfer
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Lock both rows in a fixed order to avoid deadlocks between opposing
	// transfers.
	first, second := sender, receiver
	if second.String() < first.String() {
		first, second = second, first
	}
	balances := make(map[uuid.UUID]int64, 2)
	if balances[first], err = lockBalance(ctx, tx, first); err != nil {
		return TransferResult{}, err
	}
	if balances[second], err = lockBalance(ctx, tx, second); err != nil {
		return TransferResult{}, err
	}

	senderBalance := balances[sender]
	if senderBalance < amount {
		return TransferResult{}, ErrInsufficientBalance
	}
	senderBalance -= amount
	receiverBalance := balances[receiver] + amount

	if _, err := tx.Exec(ctx, `UPDATE users SET balance = $1 WHERE id = $2`, senderBalance, sender); err != nil {
		return TransferResult{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET balance = $1 WHERE id = $2`, receiverBalance, receiver); err != nil {
		return TransferResult{}, err
	}

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
	if err := insertTransaction(ctx, tx, debit); err != nil {
		return TransferResult{}, err
	}
	if err := insertTransaction(ctx, tx, credit); err != nil {
		return TransferResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, err
	}

	return TransferResult{Debit: debit, Credit: credit, SenderBalance: senderBalance, ReceiverBalance: receiverBalance}, nil
}

// TransactionsFor returns the records where the user is the economically
// affected party, newest first.
func (s *PostgresStore) TransactionsFor(ctx context.Context, userID string) ([]Transaction, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	rows, err := s.db.Query(ctx, `SELECT id, sender_id, receiver_id, amount, kind, description, status, created_at
        FROM transactions
        WHERE (sender_id = $1 AND kind = $2) OR (receiver_id = $1 AND kind = $3)
        ORDER BY created_at DESC, id DESC`, id, KindDebit, KindCredit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var (
			record               Transaction
			recordID             uuid.UUID
			senderID, receiverID *uuid.UUID
			description          *string
			createdAt            time.Time
		)
		if err := rows.Scan(&recordID, &senderID, &receiverID, &record.Amount, &record.Kind, &description, &record.Status, &createdAt); err != nil {
			return nil, err
		}
		record.ID = recordID.String()
		if senderID != nil {
			v := senderID.String()
			record.SenderID = &v
		}
		if receiverID != nil {
			v := receiverID.String()
			record.ReceiverID = &v
		}
		if description != nil {
			record.Description = *description
		}
		record.CreatedAt = createdAt.UTC()
		transactions = append(transactions, record)
	}
	return transactions, rows.Err()
}

func lockBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int64, error) {
	var balance int64
	if err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

func insertTransaction(ctx context.Context, tx pgx.Tx, record Transaction) error {
	recordID, err := uuid.Parse(record.ID)
	if err != nil {
		return err
	}
	var senderID, receiverID *uuid.UUID
	if record.SenderID != nil {
		v, err := uuid.Parse(*record.SenderID)
		if err != nil {
			return err
		}
		senderID = &v
	}
	if record.ReceiverID != nil {
		v, err := uuid.Parse(*record.ReceiverID)
		if err != nil {
			return err
		}
		receiverID = &v
	}
	var description *string
	if record.Description != "" {
		description = &record.Description
	}
	_, err = tx.Exec(ctx, `INSERT INTO transactions (id, sender_id, receiver_id, amount, kind, description, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		recordID, senderID, receiverID, record.Amount, record.Kind, description, record.Status, record.CreatedAt)
	return err
}
