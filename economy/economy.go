// Package economy defines the currency ledger the shop charges against.
//
// The ledger is an external collaborator. The shop only needs to resolve a
// user's account, read its balance, and debit it with a memo line.
package economy

import (
	"context"
	"errors"

	"github.com/xraph/storefront/types"
)

// ErrNoAccount is returned when a user has no ledger account.
var ErrNoAccount = errors.New("economy: no account")

// Account is a single user's currency account.
type Account interface {
	// Balance returns the current spendable balance.
	Balance(ctx context.Context) (types.Amount, error)

	// Debit removes amount from the account. The memo describes the
	// charge on the account's statement.
	Debit(ctx context.Context, amount types.Amount, memo string) error

	// Credit adds amount to the account.
	Credit(ctx context.Context, amount types.Amount, memo string) error
}

// Ledger resolves user accounts.
type Ledger interface {
	// Account returns the account for a user, or ErrNoAccount if the
	// user has never opened one.
	Account(ctx context.Context, userID string) (Account, error)
}
