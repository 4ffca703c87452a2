// Package notify keeps track of chat users that receive broadcasts and
// delivers them.
package notify

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/taskbot/internal/domain"
)

type member struct {
	seen   time.Time
	chatID string
}

// Registry is the set of users that asked to be notified.
// Fields are ordered to minimize memory padding.
type Registry struct {
	clock   domain.Clock
	members map[string]member
	mu      sync.RWMutex
	ttl     time.Duration
}

// NewRegistry creates a Registry. Members not seen for ttl are dropped;
// a ttl of 0 keeps them for the life of the process.
func NewRegistry(clock domain.Clock, ttl time.Duration) *Registry {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Registry{
		clock:   clock,
		ttl:     ttl,
		members: make(map[string]member),
	}
}

// Add registers a user, or refreshes an existing registration.
func (r *Registry) Add(userID, chatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[userID] = member{chatID: chatID, seen: r.clock.Now()}
}

// Touch refreshes the last-seen time of a registered user.
// Returns false if the user is not registered.
func (r *Registry) Touch(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[userID]
	if !ok {
		return false
	}
	m.seen = r.clock.Now()
	r.members[userID] = m
	return true
}

// Remove unregisters a user.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, userID)
}

// Contains reports whether the user is registered and not expired.
func (r *Registry) Contains(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[userID]
	return ok && !r.expired(m, r.clock.Now())
}

// Active returns the live members ordered by user ID.
func (r *Registry) Active() []domain.Recipient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := r.clock.Now()
	out := make([]domain.Recipient, 0, len(r.members))
	for id, m := range r.members {
		if r.expired(m, now) {
			continue
		}
		out = append(out, domain.Recipient{UserID: id, ChatID: m.chatID})
	}
	slices.SortFunc(out, func(a, b domain.Recipient) int {
		return strings.Compare(a.UserID, b.UserID)
	})
	return out
}

// Prune drops expired members and returns how many were removed.
func (r *Registry) Prune() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	n := 0
	for id, m := range r.members {
		if r.expired(m, now) {
			delete(r.members, id)
			n++
		}
	}
	return n
}

// Len returns the number of registrations, expired ones included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *Registry) expired(m member, now time.Time) bool {
	return r.ttl > 0 && now.Sub(m.seen) > r.ttl
}
