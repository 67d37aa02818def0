package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddleup-app/huddleup-api/models"
)

// ActivityStore contains the activity lifecycle operations backed by the
// shared store. Mutators preserve the roster invariants: the participant
// count never exceeds maxParticipants, a fullName appears at most once, and
// the creator stays on the roster.
type ActivityStore interface {
	Insert(activity models.Activity) models.Activity
	FindByID(id string) (models.Activity, error)
	Activities() []models.Activity
	Join(activityID, fullName string) error
	Leave(activityID, fullName string) error
	Replace(requesterID string, updated models.Activity) error
	Delete(requesterID, activityID string) error
}

type activityStore struct {
	s *Store
}

// NewActivityStore initializes a new instance of activity store with the provided shared store
func NewActivityStore(s *Store) ActivityStore {
	return &activityStore{s: s}
}

// Insert creates the activity: a fresh immutable id, the creator as the sole
// initial participant, and a canonical timestamp parsed from the free-text
// schedule. Preset types mirror the type into activityName for display.
func (a *activityStore) Insert(activity models.Activity) models.Activity {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	now := a.s.now()

	activity.ID = uuid.New().String()
	activity.Participants = []string{activity.Creator.FullName}
	if activity.Type != "Custom" {
		activity.ActivityName = activity.Type
	} else if activity.ActivityName == "" {
		activity.ActivityName = "Custom Activity"
	}
	activity.StartsAt = parseWhen(activity.CreatedAt, now)
	activity.IsPast = activity.StartsAt.Before(now)

	a.s.activities = append(a.s.activities, copyActivity(activity))
	return activity
}

func (a *activityStore) FindByID(id string) (models.Activity, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i := a.s.findActivity(id)
	if i < 0 {
		return models.Activity{}, ErrActivityNotFound
	}
	return a.projectLocked(i), nil
}

// Activities returns a snapshot of every activity in creation order. The
// derived IsPast flag is recomputed on every read; privacy filtering stays in
// the presentation layer, the server always returns the full set.
func (a *activityStore) Activities() []models.Activity {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	out := make([]models.Activity, 0, len(a.s.activities))
	for i := range a.s.activities {
		out = append(out, a.projectLocked(i))
	}
	return out
}

// Join adds fullName to the roster. Callers treat the returned errors as
// fire-and-forget conditions: a full activity or a duplicate join simply
// leaves the roster unchanged.
func (a *activityStore) Join(activityID, fullName string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i := a.s.findActivity(activityID)
	if i < 0 {
		return ErrActivityNotFound
	}
	activity := &a.s.activities[i]
	if len(activity.Participants) >= activity.MaxParticipants {
		return ErrActivityFull
	}
	for _, p := range activity.Participants {
		if p == fullName {
			return ErrAlreadyParticipant
		}
	}
	activity.Participants = append(activity.Participants, fullName)
	return nil
}

// Leave removes fullName from the roster. The creator cannot leave their own
// activity, ownership implies membership.
func (a *activityStore) Leave(activityID, fullName string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i := a.s.findActivity(activityID)
	if i < 0 {
		return ErrActivityNotFound
	}
	activity := &a.s.activities[i]
	if activity.Creator.FullName == fullName {
		return ErrNotOwner
	}
	for j, p := range activity.Participants {
		if p == fullName {
			activity.Participants = append(activity.Participants[:j], activity.Participants[j+1:]...)
			return nil
		}
	}
	return ErrNotParticipant
}

// Replace updates the descriptive fields of an activity in place. Only the
// creator may update; the roster and creator identity are never replaced
// through this path, and the capacity cannot be lowered below the current
// roster size.
func (a *activityStore) Replace(requesterID string, updated models.Activity) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i := a.s.findActivity(updated.ID)
	if i < 0 {
		return ErrActivityNotFound
	}
	activity := &a.s.activities[i]
	if activity.Creator.ID != requesterID {
		return ErrNotOwner
	}
	if updated.MaxParticipants < len(activity.Participants) {
		return ErrActivityFull
	}

	now := a.s.now()
	activity.Type = updated.Type
	if updated.Type != "Custom" {
		activity.ActivityName = updated.Type
	} else if updated.ActivityName != "" {
		activity.ActivityName = updated.ActivityName
	}
	activity.Location = updated.Location
	activity.CreatedAt = updated.CreatedAt
	activity.StartsAt = parseWhen(updated.CreatedAt, now)
	activity.MaxParticipants = updated.MaxParticipants
	activity.IsPrivate = updated.IsPrivate
	return nil
}

// Delete removes the activity. Creator-only, the id is never reused.
func (a *activityStore) Delete(requesterID, activityID string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i := a.s.findActivity(activityID)
	if i < 0 {
		return ErrActivityNotFound
	}
	if a.s.activities[i].Creator.ID != requesterID {
		return ErrNotOwner
	}
	a.s.activities = append(a.s.activities[:i], a.s.activities[i+1:]...)
	return nil
}

func (a *activityStore) projectLocked(i int) models.Activity {
	out := copyActivity(a.s.activities[i])
	out.IsPast = out.StartsAt.Before(a.s.now())
	return out
}

// whenLayouts are the date formats the web client is known to produce.
var whenLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseWhen derives a canonical timestamp from the free-text schedule.
// "Right now", an empty value or anything unparseable resolves to now.
func parseWhen(when string, now time.Time) time.Time {
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, when, time.Local); err == nil {
			return t
		}
	}
	return now
}
