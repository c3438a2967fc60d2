package identity

import (
	"context"
	"sync"
)

// MemoryResolver is an in-memory Resolver backed by a static member table.
// Useful for tests and local development.
type MemoryResolver struct {
	mu      sync.RWMutex
	members map[string]User
}

// NewMemoryResolver creates a resolver with the given members.
func NewMemoryResolver(members ...User) *MemoryResolver {
	r := &MemoryResolver{members: make(map[string]User, len(members))}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

// Add registers a member.
func (r *MemoryResolver) Add(u User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[u.ID] = u
}

// Remove forgets a member. Subsequent resolves return ErrUnknownUser.
func (r *MemoryResolver) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.members, userID)
}

// Resolve implements Resolver.
func (r *MemoryResolver) Resolve(_ context.Context, userID string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.members[userID]
	if !ok {
		return User{}, ErrUnknownUser
	}
	return u, nil
}
