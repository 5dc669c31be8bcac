package identity

import "time"

// User represents a registered wallet owner. Balance is held in minor
// currency units and is only ever mutated by the wallet store.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash []byte
	Balance      int64
	CreatedAt    time.Time
}

// Credentials carry the data needed to register or authenticate a user.
type Credentials struct {
	Name     string
	Email    string
	Password string
	Phone    string
}
