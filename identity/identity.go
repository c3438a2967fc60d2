// Package identity resolves user IDs to members of the community the shop
// serves, and delivers direct messages to them.
package identity

import (
	"context"
	"errors"
)

// ErrUnknownUser is returned when a user ID cannot be resolved to a member.
var ErrUnknownUser = errors.New("identity: unknown user")

// User is a resolved member.
type User struct {
	ID   string
	Name string
}

// Resolver looks up members by ID. Resolution can fail transiently (the
// backing platform is remote) as well as permanently (the member left).
type Resolver interface {
	// Resolve returns the member for userID, or ErrUnknownUser.
	Resolve(ctx context.Context, userID string) (User, error)
}

// Message is a notification delivered to a member.
type Message struct {
	Title string
	Body  string
	Color string
}

// Sender delivers direct messages to members. Delivery is best effort;
// callers log and continue on error.
type Sender interface {
	Send(ctx context.Context, user User, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, user User, msg Message) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, user User, msg Message) error {
	return f(ctx, user, msg)
}

// Discard is a Sender that drops every message.
var Discard Sender = SenderFunc(func(context.Context, User, Message) error { return nil })
