package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleup-app/huddleup-api/api/handlers"
	"github.com/huddleup-app/huddleup-api/models"
)

func newRealtimeServer(t *testing.T) *httptest.Server {
	t.Helper()

	a := handlers.App{}
	a.Initialize()
	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"event": event, "data": data}))
}

// readEvent reads frames until one with the wanted event name arrives.
// Per-connection delivery is FIFO, so skipping unrelated frames is safe.
func readEvent(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&env))
		if env.Event == want {
			return env.Data
		}
	}
}

func readActivities(t *testing.T, conn *websocket.Conn) []models.Activity {
	t.Helper()

	var activities []models.Activity
	require.NoError(t, json.Unmarshal(readEvent(t, conn, "activities"), &activities))
	return activities
}

type session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func signUp(t *testing.T, conn *websocket.Conn, fullName, email string) session {
	t.Helper()

	sendEvent(t, conn, "signup", map[string]string{"fullName": fullName, "email": email})
	var s session
	require.NoError(t, json.Unmarshal(readEvent(t, conn, "signupSuccess"), &s))
	return s
}

func TestRealtime_InitialSyncOnConnect(t *testing.T) {
	srv := newRealtimeServer(t)
	conn := dialWS(t, srv)

	assert.Empty(t, readActivities(t, conn))
}

func TestRealtime_SignupIssuesSession(t *testing.T) {
	srv := newRealtimeServer(t)
	conn := dialWS(t, srv)
	readActivities(t, conn) // initial sync

	s := signUp(t, conn, "Alice", "alice@example.com")
	assert.Equal(t, "Alice", s.User.FullName)
	assert.NotEmpty(t, s.User.ID)
	assert.NotEmpty(t, s.Token)
}

func TestRealtime_SignupDuplicateEmailFails(t *testing.T) {
	srv := newRealtimeServer(t)
	conn := dialWS(t, srv)
	readActivities(t, conn)

	signUp(t, conn, "Alice", "alice@example.com")

	sendEvent(t, conn, "signup", map[string]string{"fullName": "Other", "email": "alice@example.com"})
	var msg string
	require.NoError(t, json.Unmarshal(readEvent(t, conn, "signupFailure"), &msg))
	assert.Equal(t, "User with this email already exists.", msg)
}

func TestRealtime_Login(t *testing.T) {
	srv := newRealtimeServer(t)
	conn := dialWS(t, srv)
	readActivities(t, conn)
	signUp(t, conn, "Alice", "alice@example.com")

	other := dialWS(t, srv)
	readActivities(t, other)

	sendEvent(t, other, "login", map[string]string{"fullName": "Alice", "email": "wrong@example.com"})
	var msg string
	require.NoError(t, json.Unmarshal(readEvent(t, other, "loginFailure"), &msg))
	assert.Equal(t, "Invalid full name or email.", msg)

	sendEvent(t, other, "login", map[string]string{"fullName": "Alice", "email": "alice@example.com"})
	var s session
	require.NoError(t, json.Unmarshal(readEvent(t, other, "loginSuccess"), &s))
	assert.Equal(t, "Alice", s.User.FullName)
	assert.NotEmpty(t, s.Token)
}

// Every connected client receives the snapshot after any one client mutates,
// including clients that did not initiate the mutation.
func TestRealtime_CreateBroadcastsToAllClients(t *testing.T) {
	srv := newRealtimeServer(t)

	creator := dialWS(t, srv)
	readActivities(t, creator)
	observer := dialWS(t, srv)
	readActivities(t, observer)

	signUp(t, creator, "Alice", "alice@example.com")
	sendEvent(t, creator, "createActivity", map[string]interface{}{
		"type":            "Lunch",
		"location":        "Cafeteria",
		"when":            "Right now",
		"maxParticipants": 2,
	})

	fromCreator := readActivities(t, creator)
	require.Len(t, fromCreator, 1)
	assert.Equal(t, "Lunch", fromCreator[0].Type)
	assert.Equal(t, []string{"Alice"}, fromCreator[0].Participants)

	fromObserver := readActivities(t, observer)
	require.Len(t, fromObserver, 1)
	assert.Equal(t, fromCreator[0].ID, fromObserver[0].ID)
}

func TestRealtime_JoinAndLeaveFlow(t *testing.T) {
	srv := newRealtimeServer(t)

	alice := dialWS(t, srv)
	readActivities(t, alice)
	signUp(t, alice, "Alice", "alice@example.com")

	bob := dialWS(t, srv)
	readActivities(t, bob)
	signUp(t, bob, "Bob", "bob@example.com")

	sendEvent(t, alice, "createActivity", map[string]interface{}{
		"type":            "Ping Pong",
		"location":        "Game Room",
		"when":            "Right now",
		"maxParticipants": 4,
	})
	created := readActivities(t, bob)
	require.Len(t, created, 1)
	readActivities(t, alice) // drain Alice's copy of the create broadcast

	sendEvent(t, bob, "joinActivity", map[string]string{"activityId": created[0].ID})
	joined := readActivities(t, alice)
	require.Len(t, joined, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, joined[0].Participants)

	// a duplicate join emits nothing; the fetch snapshot shows the roster
	// unchanged
	sendEvent(t, bob, "joinActivity", map[string]string{"activityId": created[0].ID})
	sendEvent(t, bob, "fetchActivities", nil)
	readActivities(t, bob) // join broadcast
	refetched := readActivities(t, bob)
	assert.Equal(t, []string{"Alice", "Bob"}, refetched[0].Participants)

	sendEvent(t, bob, "leaveActivity", map[string]string{"activityId": created[0].ID})
	left := readActivities(t, alice)
	assert.Equal(t, []string{"Alice"}, left[0].Participants)
}

func TestRealtime_UpdateAndDeleteAreCreatorOnly(t *testing.T) {
	srv := newRealtimeServer(t)

	alice := dialWS(t, srv)
	readActivities(t, alice)
	signUp(t, alice, "Alice", "alice@example.com")

	mallory := dialWS(t, srv)
	readActivities(t, mallory)
	signUp(t, mallory, "Mallory", "mallory@example.com")

	sendEvent(t, alice, "createActivity", map[string]interface{}{
		"type":            "Walk",
		"location":        "Park",
		"when":            "Right now",
		"maxParticipants": 5,
	})
	created := readActivities(t, mallory)
	require.Len(t, created, 1)

	// a non-creator's update and delete are silently ignored
	hijacked := created[0]
	hijacked.Location = "Hijacked"
	sendEvent(t, mallory, "updateActivity", hijacked)
	sendEvent(t, mallory, "deleteActivity", created[0].ID)
	sendEvent(t, mallory, "fetchActivities", nil)
	unchanged := readActivities(t, mallory)
	require.Len(t, unchanged, 1)
	assert.Equal(t, "Park", unchanged[0].Location)

	// the creator's update goes through and reaches everyone
	moved := created[0]
	moved.Location = "Riverside"
	sendEvent(t, alice, "updateActivity", moved)
	updated := readActivities(t, mallory)
	assert.Equal(t, "Riverside", updated[0].Location)

	sendEvent(t, alice, "deleteActivity", created[0].ID)
	assert.Empty(t, readActivities(t, mallory))
}

func TestRealtime_UnauthenticatedIntentsAreIgnored(t *testing.T) {
	srv := newRealtimeServer(t)

	conn := dialWS(t, srv)
	readActivities(t, conn)

	sendEvent(t, conn, "createActivity", map[string]interface{}{
		"type":            "Lunch",
		"location":        "Cafeteria",
		"when":            "Right now",
		"maxParticipants": 2,
	})
	sendEvent(t, conn, "fetchActivities", nil)
	assert.Empty(t, readActivities(t, conn))
}
