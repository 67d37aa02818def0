package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/huddleup-app/huddleup-api/api"
	"github.com/huddleup-app/huddleup-api/models"
	"github.com/huddleup-app/huddleup-api/store"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // browser clients connect from any origin
	},
}

// envelope is the wire frame for every realtime message in both directions
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// client is one connected websocket. user is bound after a successful login
// or signup and is only touched from the connection's own read loop. writeMu
// serializes writes because hub broadcasts race with read-loop replies.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	user    *models.User
}

func (c *client) send(event string, data interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  data,
	})
}

// identity returns the connection-bound user. Intents from connections that
// never logged in are dropped; client-sent ids are never trusted.
func (c *client) identity() (models.User, bool) {
	if c.user == nil {
		return models.User{}, false
	}
	return *c.user, true
}

// Hub tracks connected clients and fans activity snapshots out to all of them
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	adb     store.ActivityStore
}

// NewHub creates a hub that snapshots from the given activity store
func NewHub(adb store.ActivityStore) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		adb:     adb,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// BroadcastActivities pushes the full current activity list to every
// connected client, not just the initiator and not a delta. A client whose
// write fails is dropped; it re-syncs from the connect-time snapshot when it
// reconnects.
func (h *Hub) BroadcastActivities() {
	snapshot := h.adb.Activities()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.send("activities", snapshot); err != nil {
			zap.S().Debugw("dropping websocket client after failed write", "error", err)
			delete(h.clients, c)
			c.conn.Close()
		}
	}
}

// Realtime handles the websocket surface: identity events and activity intents
type Realtime struct {
	Hub *Hub
	UDB store.UserStore
	ADB store.ActivityStore
}

// sessionData is pushed with loginSuccess/signupSuccess. The token
// authenticates the same user on the request/response API.
type sessionData struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type credentials struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type activityRef struct {
	ActivityID string `json:"activityId"`
}

type newActivity struct {
	Type            string `json:"type"`
	ActivityName    string `json:"activityName"`
	Location        string `json:"location"`
	When            string `json:"when"`
	MaxParticipants int    `json:"maxParticipants"`
	IsPrivate       bool   `json:"isPrivate"`
}

// ServeWS upgrades the connection, pushes the initial snapshot and runs the
// read loop. Each inbound intent is applied atomically against the store
// before the next one from this connection is read.
func (rt Realtime) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	rt.Hub.register(c)
	zap.S().Debugw("websocket client connected", "remote", conn.RemoteAddr().String())

	// initial sync
	_ = c.send("activities", rt.ADB.Activities())

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			break
		}
		rt.dispatch(c, r, env)
	}

	rt.Hub.unregister(c)
	conn.Close()
	zap.S().Debugw("websocket client disconnected", "remote", conn.RemoteAddr().String())
}

func (rt Realtime) dispatch(c *client, r *http.Request, env envelope) {
	switch env.Event {
	case "signup":
		rt.signup(c, r, env.Data)
	case "login":
		rt.login(c, r, env.Data)
	case "fetchActivities":
		_ = c.send("activities", rt.ADB.Activities())
	case "createActivity":
		rt.createActivity(c, env.Data)
	case "joinActivity":
		rt.joinActivity(c, env.Data)
	case "leaveActivity":
		rt.leaveActivity(c, env.Data)
	case "updateActivity":
		rt.updateActivity(c, env.Data)
	case "deleteActivity":
		rt.deleteActivity(c, env.Data)
	default:
		zap.S().Debugw("unknown realtime event", "event", env.Event)
	}
}

func (rt Realtime) signup(c *client, r *http.Request, data json.RawMessage) {
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		zap.S().Debugw("malformed signup payload", "error", err)
		return
	}

	user, err := rt.UDB.Insert(creds.FullName, creds.Email)
	if err != nil {
		_ = c.send("signupFailure", "User with this email already exists.")
		return
	}

	c.user = &user
	_ = c.send("signupSuccess", sessionData{User: user, Token: api.IssueToken(r, user)})
}

func (rt Realtime) login(c *client, r *http.Request, data json.RawMessage) {
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		zap.S().Debugw("malformed login payload", "error", err)
		return
	}

	user, err := rt.UDB.FindByCredentials(creds.FullName, creds.Email)
	if err != nil {
		_ = c.send("loginFailure", "Invalid full name or email.")
		return
	}

	c.user = &user
	_ = c.send("loginSuccess", sessionData{User: user, Token: api.IssueToken(r, user)})
}

func (rt Realtime) createActivity(c *client, data json.RawMessage) {
	user, ok := c.identity()
	if !ok {
		zap.S().Debugw("createActivity from unauthenticated connection ignored")
		return
	}
	var payload newActivity
	if err := json.Unmarshal(data, &payload); err != nil {
		zap.S().Debugw("malformed createActivity payload", "error", err)
		return
	}

	rt.ADB.Insert(models.Activity{
		Type:            payload.Type,
		ActivityName:    payload.ActivityName,
		Location:        payload.Location,
		CreatedAt:       payload.When,
		MaxParticipants: payload.MaxParticipants,
		IsPrivate:       payload.IsPrivate,
		Creator:         models.Creator{ID: user.ID, FullName: user.FullName},
	})
	rt.Hub.BroadcastActivities()
}

func (rt Realtime) joinActivity(c *client, data json.RawMessage) {
	user, ok := c.identity()
	if !ok {
		return
	}
	var ref activityRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return
	}

	// join failures are fire-and-forget: a full activity or a duplicate
	// join leaves the roster untouched and emits nothing
	if err := rt.ADB.Join(ref.ActivityID, user.FullName); err != nil {
		zap.S().Debugw("joinActivity ignored", "activityId", ref.ActivityID, "reason", err)
		return
	}
	rt.Hub.BroadcastActivities()
}

func (rt Realtime) leaveActivity(c *client, data json.RawMessage) {
	user, ok := c.identity()
	if !ok {
		return
	}
	var ref activityRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return
	}

	if err := rt.ADB.Leave(ref.ActivityID, user.FullName); err != nil {
		zap.S().Debugw("leaveActivity ignored", "activityId", ref.ActivityID, "reason", err)
		return
	}
	rt.Hub.BroadcastActivities()
}

func (rt Realtime) updateActivity(c *client, data json.RawMessage) {
	user, ok := c.identity()
	if !ok {
		return
	}
	var updated models.Activity
	if err := json.Unmarshal(data, &updated); err != nil {
		zap.S().Debugw("malformed updateActivity payload", "error", err)
		return
	}

	if err := rt.ADB.Replace(user.ID, updated); err != nil {
		zap.S().Warnw("updateActivity rejected", "activityId", updated.ID, "userId", user.ID, "reason", err)
		return
	}
	rt.Hub.BroadcastActivities()
}

func (rt Realtime) deleteActivity(c *client, data json.RawMessage) {
	user, ok := c.identity()
	if !ok {
		return
	}
	// the client sends the bare activity id
	var activityID string
	if err := json.Unmarshal(data, &activityID); err != nil {
		zap.S().Debugw("malformed deleteActivity payload", "error", err)
		return
	}

	if err := rt.ADB.Delete(user.ID, activityID); err != nil {
		zap.S().Warnw("deleteActivity rejected", "activityId", activityID, "userId", user.ID, "reason", err)
		return
	}
	rt.Hub.BroadcastActivities()
}
