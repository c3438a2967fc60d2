package economy

import (
	"context"
	"sync"

	"github.com/xraph/storefront/types"
)

// MemoryLedger is an in-memory Ledger. Accounts must be opened explicitly
// with Open before they can be resolved. Useful for tests and local
// development.
type MemoryLedger struct {
	mu       sync.RWMutex
	accounts map[string]*memoryAccount
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{accounts: make(map[string]*memoryAccount)}
}

// Open creates an account for userID with the given starting balance.
// Reopening an existing account resets its balance.
func (l *MemoryLedger) Open(userID string, balance types.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts[userID] = &memoryAccount{balance: balance}
}

// Account implements Ledger.
func (l *MemoryLedger) Account(_ context.Context, userID string) (Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[userID]
	if !ok {
		return nil, ErrNoAccount
	}
	return acct, nil
}

// Statement returns the memo lines recorded for a user's account, oldest
// first. Returns nil for unknown users.
func (l *MemoryLedger) Statement(userID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[userID]
	if !ok {
		return nil
	}
	return acct.statement()
}

type memoryAccount struct {
	mu      sync.Mutex
	balance types.Amount
	memos   []string
}

func (a *memoryAccount) Balance(_ context.Context) (types.Amount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.balance, nil
}

func (a *memoryAccount) Debit(_ context.Context, amount types.Amount, memo string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Subtract(amount)
	a.memos = append(a.memos, memo)
	return nil
}

func (a *memoryAccount) Credit(_ context.Context, amount types.Amount, memo string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Add(amount)
	a.memos = append(a.memos, memo)
	return nil
}

func (a *memoryAccount) statement() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, len(a.memos))
	copy(out, a.memos)
	return out
}
