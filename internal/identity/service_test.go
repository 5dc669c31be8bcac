package identity

import (
	"context"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, Credentials{Name: "Alice", Email: "alice@example.com", Password: "s3cret99", Phone: "+15550000001"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Balance != 0 {
		t.Fatalf("expected zero starting balance, got %d", user.Balance)
	}
	if string(user.PasswordHash) == "s3cret99" {
		t.Fatalf("password stored unhashed")
	}

	authed, err := svc.Authenticate(ctx, "alice@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "Alice", Email: "dup@example.com", Password: "s3cret99", Phone: "+15550000001"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, Credentials{Name: "Bob", Email: "dup@example.com", Password: "hunter22", Phone: "+15550000002"}); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "Alice", Email: "alice@example.com", Password: "s3cret99", Phone: "+15550000001"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, Credentials{Name: "Bob", Email: "bob@example.com", Password: "hunter22", Phone: "+15550000001"}); err != ErrPhoneTaken {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "Alice", Email: "alice@example.com", Password: "s3cret99", Phone: "+15550000001"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "s3cret99"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
