package wallet

// SeedUser is a test helper that registers a user id with the given balance
// when using the in-memory store.
func SeedUser(s Store, userID string, balance int64) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[userID] = balance
	}
}
