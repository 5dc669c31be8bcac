package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pay-link/paylink/internal/cache"
	"github.com/pay-link/paylink/internal/identity"
	"github.com/pay-link/paylink/internal/notification"
)

type testNotifier struct {
	mu   sync.Mutex
	last notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = msg
	return nil
}

func registerUser(t *testing.T, ids *identity.Service, name, email, phone string) identity.User {
	t.Helper()
	user, err := ids.Register(context.Background(), identity.Credentials{Name: name, Email: email, Password: "s3cret99", Phone: phone})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return user
}

func TestDepositThenTransferScenario(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	store := NewMemoryStore()
	notifier := &testNotifier{}
	svc := NewService(store, repo, notifier, nil)
	ctx := context.Background()

	alice := registerUser(t, ids, "Alice", "alice@example.com", "+15550000001")
	bob := registerUser(t, ids, "Bob", "bob@example.com", "+15550000002")

	balance, err := svc.Deposit(ctx, alice.ID, 100)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected balance 100 after deposit, got %d", balance)
	}

	balance, err = svc.Transfer(ctx, alice, bob.Phone, 40, "lunch")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if balance != 60 {
		t.Fatalf("expected sender balance 60, got %d", balance)
	}

	bobBalance, err := svc.Balance(ctx, bob.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bobBalance != 40 {
		t.Fatalf("expected receiver balance 40, got %d", bobBalance)
	}

	history, err := svc.Transactions(ctx, alice.ID)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].Kind != KindDebit || history[0].Amount != 40 {
		t.Fatalf("expected transfer debit first, got %+v", history[0])
	}
	if history[1].Kind != KindCredit || history[1].Amount != 100 {
		t.Fatalf("expected deposit credit second, got %+v", history[1])
	}

	if notifier.last.Kind != notification.KindTransferReceived || notifier.last.Destination != bob.ID {
		t.Fatalf("expected transfer notification for receiver, got %+v", notifier.last)
	}
}

func TestTransferInsufficientBalanceUnchanged(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	store := NewMemoryStore()
	svc := NewService(store, repo, nil, nil)
	ctx := context.Background()

	alice := registerUser(t, ids, "Alice", "alice@example.com", "+15550000001")
	bob := registerUser(t, ids, "Bob", "bob@example.com", "+15550000002")

	if _, err := svc.Deposit(ctx, alice.ID, 10); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	if _, err := svc.Transfer(ctx, alice, bob.Phone, 50, ""); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	aliceBalance, _ := svc.Balance(ctx, alice.ID)
	bobBalance, _ := svc.Balance(ctx, bob.ID)
	if aliceBalance != 10 || bobBalance != 0 {
		t.Fatalf("balances changed on failed transfer: %d, %d", aliceBalance, bobBalance)
	}

	history, err := svc.Transactions(ctx, bob.ID)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no records for receiver, got %d", len(history))
	}
}

func TestTransferValidation(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	store := NewMemoryStore()
	svc := NewService(store, repo, nil, nil)
	ctx := context.Background()

	alice := registerUser(t, ids, "Alice", "alice@example.com", "+15550000001")
	if _, err := svc.Deposit(ctx, alice.ID, 100); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	if _, err := svc.Transfer(ctx, alice, "+15559999999", 10, ""); err != ErrReceiverNotFound {
		t.Fatalf("expected ErrReceiverNotFound, got %v", err)
	}
	if _, err := svc.Transfer(ctx, alice, alice.Phone, 10, ""); err != ErrSelfTransfer {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
	if _, err := svc.Transfer(ctx, alice, alice.Phone, 0, ""); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Deposit(ctx, alice.ID, -5); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount for negative deposit, got %v", err)
	}
}

func TestConcurrentTransfersCappedByBalance(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	store := NewMemoryStore()
	svc := NewService(store, repo, nil, nil)
	ctx := context.Background()

	alice := registerUser(t, ids, "Alice", "alice@example.com", "+15550000001")
	bob := registerUser(t, ids, "Bob", "bob@example.com", "+15550000002")

	if _, err := svc.Deposit(ctx, alice.ID, 300); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, alice, bob.Phone, 100, "")
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			if err != ErrInsufficientBalance {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 3 {
		t.Fatalf("expected 3 successful transfers, got %d", success)
	}

	aliceBalance, _ := svc.Balance(ctx, alice.ID)
	bobBalance, _ := svc.Balance(ctx, bob.ID)
	if aliceBalance != 0 || bobBalance != 300 {
		t.Fatalf("unexpected final balances: %d, %d", aliceBalance, bobBalance)
	}
}

func TestTransactionsCacheInvalidation(t *testing.T) {
	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo)
	store := NewMemoryStore()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	history := cache.NewHistory(client, time.Minute)

	svc := NewService(store, repo, nil, history)
	ctx := context.Background()

	alice := registerUser(t, ids, "Alice", "alice@example.com", "+15550000001")
	bob := registerUser(t, ids, "Bob", "bob@example.com", "+15550000002")

	if _, err := svc.Deposit(ctx, alice.ID, 100); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	first, err := svc.Transactions(ctx, alice.ID)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 record, got %d", len(first))
	}

	// Second read must come from the cache.
	var cached []Transaction
	if !history.Get(ctx, alice.ID, &cached) {
		t.Fatalf("expected history to be cached")
	}

	if _, err := svc.Transfer(ctx, alice, bob.Phone, 40, ""); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if history.Get(ctx, alice.ID, &cached) {
		t.Fatalf("expected sender cache invalidated after transfer")
	}
	if history.Get(ctx, bob.ID, &cached) {
		t.Fatalf("expected receiver cache invalidated after transfer")
	}

	after, err := svc.Transactions(ctx, alice.ID)
	if err != nil {
		t.Fatalf("transactions after transfer: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected refreshed history with 2 records, got %d", len(after))
	}
}
