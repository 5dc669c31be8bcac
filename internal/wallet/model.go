package wallet

import "time"

const (
	// KindCredit marks a transaction that increased the receiver's balance.
	KindCredit = "credit"
	// KindDebit marks a transaction that decreased the sender's balance.
	KindDebit = "debit"

	// StatusPending, StatusCompleted and StatusFailed are the recognised
	// transaction states. Records are only ever written completed.
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction is an append-only record of a single balance movement. A
// transfer produces two of them, one debit and one credit, both referencing
// both parties by user id.
type Transaction struct {
	ID          string    `json:"id"`
	SenderID    *string   `json:"sender_id,omitempty"`
	ReceiverID  *string   `json:"receiver_id,omitempty"`
	Amount      int64     `json:"amount"`
	Kind        string    `json:"kind"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransferResult captures the outcome of a committed transfer.
type TransferResult struct {
	Debit           Transaction
	Credit          Transaction
	SenderBalance   int64
	ReceiverBalance int64
}
