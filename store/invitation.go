package store

import "github.com/huddleup-app/huddleup-api/models"

// InvitationStore contains the invitation workflow operations backed by the
// shared store. Invitations are append-only, transitions only ever move a
// pending invitation to a terminal state.
type InvitationStore interface {
	Insert(activityID, invitedUserName, invitedByUserID string) (models.Invitation, error)
	PendingFor(fullName string) []models.InvitationView
	Accept(activityID, invitedUserName string) (bool, error)
	Decline(activityID, invitedUserName string) error
}

type invitationStore struct {
	s *Store
}

// NewInvitationStore initializes a new instance of invitation store with the provided shared store
func NewInvitationStore(s *Store) InvitationStore {
	return &invitationStore{s: s}
}

// Insert appends a pending invitation. The invited user and the activity must
// exist, and the exact (activity, invitee, inviter) triple must not already
// have a pending invitation.
func (i *invitationStore) Insert(activityID, invitedUserName, invitedByUserID string) (models.Invitation, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	userExists := false
	for _, u := range i.s.users {
		if u.FullName == invitedUserName {
			userExists = true
			break
		}
	}
	if !userExists {
		return models.Invitation{}, ErrUserNotFound
	}
	if i.s.findActivity(activityID) < 0 {
		return models.Invitation{}, ErrActivityNotFound
	}
	for _, inv := range i.s.invitations {
		if inv.ActivityID == activityID &&
			inv.InvitedUserName == invitedUserName &&
			inv.InvitedByUserID == invitedByUserID &&
			inv.Status == models.InvitationPending {
			return models.Invitation{}, ErrDuplicateInvitation
		}
	}

	invitation := models.Invitation{
		ActivityID:      activityID,
		InvitedUserName: invitedUserName,
		InvitedByUserID: invitedByUserID,
		Status:          models.InvitationPending,
	}
	i.s.invitations = append(i.s.invitations, invitation)
	return invitation, nil
}

// PendingFor returns the pending invitations addressed to fullName, enriched
// with the inviter's name and the target activity's location and schedule.
// Placeholders stand in when the referenced entity no longer exists.
func (i *invitationStore) PendingFor(fullName string) []models.InvitationView {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	views := []models.InvitationView{}
	for _, inv := range i.s.invitations {
		if inv.InvitedUserName != fullName || inv.Status != models.InvitationPending {
			continue
		}
		view := models.InvitationView{
			Invitation:        inv,
			InvitedByFullName: "Unknown User",
			ActivityLocation:  "N/A",
			ActivityWhen:      "N/A",
		}
		for _, u := range i.s.users {
			if u.ID == inv.InvitedByUserID {
				view.InvitedByFullName = u.FullName
				break
			}
		}
		if ai := i.s.findActivity(inv.ActivityID); ai >= 0 {
			view.ActivityLocation = i.s.activities[ai].Location
			view.ActivityWhen = i.s.activities[ai].CreatedAt
		}
		views = append(views, view)
	}
	return views
}

// Accept marks the matching pending invitation accepted and, when the
// activity still exists and the invitee is not already on the roster, joins
// them. Capacity is honored even here: accepting into a full activity fails
// and the invitation stays pending. The returned bool reports whether the
// roster changed, which is what decides a broadcast.
func (i *invitationStore) Accept(activityID, invitedUserName string) (bool, error) {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	idx := i.findPendingLocked(activityID, invitedUserName)
	if idx < 0 {
		return false, ErrInvitationNotFound
	}

	ai := i.s.findActivity(activityID)
	if ai < 0 {
		// activity was deleted after the invite went out, the acceptance
		// still terminates the invitation
		i.s.invitations[idx].Status = models.InvitationAccepted
		return false, nil
	}

	activity := &i.s.activities[ai]
	for _, p := range activity.Participants {
		if p == invitedUserName {
			i.s.invitations[idx].Status = models.InvitationAccepted
			return false, nil
		}
	}
	if len(activity.Participants) >= activity.MaxParticipants {
		return false, ErrActivityFull
	}

	activity.Participants = append(activity.Participants, invitedUserName)
	i.s.invitations[idx].Status = models.InvitationAccepted
	return true, nil
}

// Decline marks the matching pending invitation declined. No activity state
// changes, so no broadcast is needed.
func (i *invitationStore) Decline(activityID, invitedUserName string) error {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	idx := i.findPendingLocked(activityID, invitedUserName)
	if idx < 0 {
		return ErrInvitationNotFound
	}
	i.s.invitations[idx].Status = models.InvitationDeclined
	return nil
}

// findPendingLocked matches only pending invitations so that accept/decline
// never re-mark an invitation that already reached a terminal state.
func (i *invitationStore) findPendingLocked(activityID, invitedUserName string) int {
	for idx, inv := range i.s.invitations {
		if inv.ActivityID == activityID &&
			inv.InvitedUserName == invitedUserName &&
			inv.Status == models.InvitationPending {
			return idx
		}
	}
	return -1
}
