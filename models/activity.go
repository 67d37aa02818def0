package models

import "time"

// Creator is a denormalized copy of the owner's identity taken at creation
// time. Renaming the user later does not propagate here.
type Creator struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// Activity holds a schedulable, capacity-bounded event with an owner and a
// participant roster. CreatedAt carries the free-text schedule the client
// typed ("Right now", "2026-09-01 12:30", ...); StartsAt is the canonical
// timestamp the server derived from it, and IsPast is recomputed from StartsAt
// on every read so clients never parse date strings themselves.
type Activity struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	ActivityName    string    `json:"activityName"`
	Location        string    `json:"location"`
	CreatedAt       string    `json:"createdAt"`
	StartsAt        time.Time `json:"startsAt"`
	MaxParticipants int       `json:"maxParticipants"`
	Participants    []string  `json:"participants"`
	Creator         Creator   `json:"creator"`
	IsPrivate       bool      `json:"isPrivate"`
	IsPast          bool      `json:"isPast"`
}

// DisplayName returns the user-facing name: custom activities show the name
// the creator typed, preset types show the type itself.
func (a Activity) DisplayName() string {
	if a.Type == "Custom" && a.ActivityName != "" {
		return a.ActivityName
	}
	return a.Type
}
