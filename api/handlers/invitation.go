package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/huddleup-app/huddleup-api/api"
	"github.com/huddleup-app/huddleup-api/config"
	"github.com/huddleup-app/huddleup-api/models"
	"github.com/huddleup-app/huddleup-api/store"
	templates "github.com/huddleup-app/huddleup-api/templates/html"
)

// Invitation handles the invitation workflow endpoints
type Invitation struct {
	IDB    store.InvitationStore
	ADB    store.ActivityStore
	UDB    store.UserStore
	Hub    *Hub
	Config config.Config
}

// InviteHandler creates a pending invitation for a named user. Only the
// activity's creator may invite; the inviter identity comes from the session
// token, never from the request body.
func (inv Invitation) InviteHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		ActivityID      string `json:"activityId"`
		InvitedUserName string `json:"invitedUserName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if requestBody.ActivityID == "" || requestBody.InvitedUserName == "" {
		config.ErrorStatus("activityId and invitedUserName are required", http.StatusBadRequest, w, errors.New("missing fields"))
		return
	}

	requester, ok := api.RequesterFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated requester", http.StatusUnauthorized, w, errors.New("missing identity"))
		return
	}

	activity, err := inv.ADB.FindByID(requestBody.ActivityID)
	if err != nil {
		config.ErrorStatus("Activity not found", http.StatusNotFound, w, err)
		return
	}
	if activity.Creator.ID != requester.ID {
		config.ErrorStatus("only the activity creator can send invitations", http.StatusForbidden, w, store.ErrNotOwner)
		return
	}

	_, err = inv.IDB.Insert(requestBody.ActivityID, requestBody.InvitedUserName, requester.ID)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		config.ErrorStatus(fmt.Sprintf("No user named %s found", requestBody.InvitedUserName), http.StatusNotFound, w, err)
		return
	case errors.Is(err, store.ErrActivityNotFound):
		config.ErrorStatus("Activity not found", http.StatusNotFound, w, err)
		return
	case errors.Is(err, store.ErrDuplicateInvitation):
		config.ErrorStatus(fmt.Sprintf("%s has already been invited to %s", requestBody.InvitedUserName, activity.DisplayName()), http.StatusConflict, w, err)
		return
	case err != nil:
		config.ErrorStatus("failed to create invitation", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("invitation created",
		"activityId", requestBody.ActivityID,
		"invitedUserName", requestBody.InvitedUserName,
		"invitedByUserId", requester.ID,
	)

	inv.sendInvitationEmail(requestBody.InvitedUserName, requester.FullName, activity)

	b, err := json.Marshal(models.MessageResponse{
		Message: fmt.Sprintf("%s has been invited to %s.", requestBody.InvitedUserName, activity.DisplayName()),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// InvitationsHandler returns the pending invitations for a user, enriched
// with inviter and activity details
func (inv Invitation) InvitationsHandler(w http.ResponseWriter, r *http.Request) {
	userName := r.URL.Query().Get("userName")
	if userName == "" {
		config.ErrorStatus("userName query parameter is required", http.StatusBadRequest, w, errors.New("missing userName"))
		return
	}

	views := inv.IDB.PendingFor(userName)
	zap.S().Debugf("found %d pending invitations for %s", len(views), userName)

	b, err := json.Marshal(views)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AcceptInvitationHandler accepts a pending invitation. Acceptance auto-joins
// the invitee when the activity still has room; a full activity fails with a
// conflict and the invitation stays pending.
func (inv Invitation) AcceptInvitationHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		ActivityID      string `json:"activityId"`
		InvitedUserName string `json:"invitedUserName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	joined, err := inv.IDB.Accept(requestBody.ActivityID, requestBody.InvitedUserName)
	switch {
	case errors.Is(err, store.ErrInvitationNotFound):
		config.ErrorStatus("Invitation not found", http.StatusNotFound, w, err)
		return
	case errors.Is(err, store.ErrActivityFull):
		config.ErrorStatus("activity is already full", http.StatusConflict, w, err)
		return
	case err != nil:
		config.ErrorStatus("failed to accept invitation", http.StatusInternalServerError, w, err)
		return
	}

	if joined {
		inv.Hub.BroadcastActivities()
	}

	b, _ := json.Marshal(models.MessageResponse{Message: "Invitation accepted."})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeclineInvitationHandler declines a pending invitation. No shared activity
// state changes, so nothing is broadcast.
func (inv Invitation) DeclineInvitationHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		ActivityID      string `json:"activityId"`
		InvitedUserName string `json:"invitedUserName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := inv.IDB.Decline(requestBody.ActivityID, requestBody.InvitedUserName); err != nil {
		config.ErrorStatus("Invitation not found", http.StatusNotFound, w, err)
		return
	}

	b, _ := json.Marshal(models.MessageResponse{Message: "Invitation declined."})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// sendInvitationEmail fires a best-effort notification email to the invitee.
// Failures only log; the invitation itself already succeeded.
func (inv Invitation) sendInvitationEmail(invitedUserName, inviterName string, activity models.Activity) {
	invitee, err := inv.UDB.FindByFullName(invitedUserName)
	if err != nil {
		return
	}

	go func(invitee models.User, activity models.Activity, inviterName string) {
		apiKey := inv.Config.SendgridAPIKey
		if apiKey == "" {
			zap.S().Debugw("SENDGRID_API_KEY not set, skipping invitation email", "email", invitee.Email)
			return
		}

		from := mail.NewEmail("HuddleUp", inv.Config.SendgridFromEmail)
		to := mail.NewEmail(invitee.FullName, invitee.Email)
		subject := fmt.Sprintf("You're invited to %s", activity.DisplayName())
		plain := fmt.Sprintf("%s invited you to %s at %s (%s). Open HuddleUp to accept or decline.",
			inviterName, activity.DisplayName(), activity.Location, activity.CreatedAt)
		htmlContent := templates.RenderInvitationEmail(inviterName, activity.DisplayName(), activity.Location, activity.CreatedAt)
		message := mail.NewSingleEmail(from, subject, to, plain, htmlContent)

		client := sendgrid.NewSendClient(apiKey)
		response, err := client.Send(message)
		if err != nil {
			zap.S().Errorw("failed to send invitation email", "email", invitee.Email, "error", err)
			return
		}

		if response.StatusCode >= 200 && response.StatusCode < 300 {
			zap.S().Infow("invitation email sent", "email", invitee.Email, "statusCode", response.StatusCode)
		} else {
			zap.S().Warnw("invitation email sent with non-2xx status", "email", invitee.Email, "statusCode", response.StatusCode, "body", response.Body)
		}
	}(invitee, activity, inviterName)
}
