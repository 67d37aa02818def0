package store

import (
	"errors"
	"sync"
	"time"

	"github.com/huddleup-app/huddleup-api/models"
)

// Typed failures surfaced by the store mutators. The realtime layer treats
// most of these as silent no-ops, the HTTP layer maps them to statuses.
var (
	ErrDuplicateEmail      = errors.New("user with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid full name or email")
	ErrUserNotFound        = errors.New("user not found")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrActivityFull        = errors.New("activity is full")
	ErrAlreadyParticipant  = errors.New("already a participant")
	ErrNotParticipant      = errors.New("not a participant")
	ErrNotOwner            = errors.New("requester is not the activity creator")
	ErrDuplicateInvitation = errors.New("invitation already exists")
	ErrInvitationNotFound  = errors.New("invitation not found")
)

// Store is the single in-memory home of all shared state: users, activities
// and invitations. Every mutator acquires mu and runs to completion under it,
// so mu is the one serialization point for the whole app and no partial write
// is ever observable. All collections preserve insertion order.
type Store struct {
	mu          sync.Mutex
	users       []models.User
	activities  []models.Activity
	invitations []models.Invitation

	now func() time.Time
}

// New constructs an empty store. The store owns its collections exclusively,
// components reach them only through the entity store interfaces below.
func New() *Store {
	return &Store{now: time.Now}
}

// SetClock overrides the store's time source, used by tests to pin "now".
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) findActivity(id string) int {
	for i := range s.activities {
		if s.activities[i].ID == id {
			return i
		}
	}
	return -1
}

func copyActivity(a models.Activity) models.Activity {
	out := a
	out.Participants = append([]string(nil), a.Participants...)
	return out
}
