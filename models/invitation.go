package models

// Invitation statuses. Invitations are never deleted, they persist in their
// terminal state.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// Invitation is a targeted request for a specific user to join a specific
// activity, independent of public discoverability.
type Invitation struct {
	ActivityID      string `json:"activityId"`
	InvitedUserName string `json:"invitedUserName"`
	InvitedByUserID string `json:"invitedByUserId"`
	Status          string `json:"status"`
}

// InvitationView is an Invitation enriched at read time with inviter and
// activity details for display. Placeholders are used when the referenced
// entity no longer exists.
type InvitationView struct {
	Invitation
	InvitedByFullName string `json:"invitedByFullName"`
	ActivityLocation  string `json:"activityLocation"`
	ActivityWhen      string `json:"activityWhen"`
}
