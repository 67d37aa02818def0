package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/huddleup-app/huddleup-api/api"
	"github.com/huddleup-app/huddleup-api/config"
	"github.com/huddleup-app/huddleup-api/models"
	"github.com/huddleup-app/huddleup-api/store"
)

// App stores the router, the shared store and the realtime hub, so it can be reused
type App struct {
	Router *mux.Router
	Config config.Config
	Store  *store.Store
	Hub    *Hub
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for the session-token middleware
	api.SetupGoGuardian()

	r := mux.NewRouter()

	udb := store.NewUserStore(a.Store)
	adb := store.NewActivityStore(a.Store)
	idb := store.NewInvitationStore(a.Store)

	rt := Realtime{Hub: a.Hub, UDB: udb, ADB: adb}
	inv := Invitation{IDB: idb, ADB: adb, UDB: udb, Hub: a.Hub, Config: a.Config}
	search := Search{ADB: adb}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// realtime channel, identity is established per connection via the
	// login/signup events
	r.HandleFunc("/ws", rt.ServeWS)

	apiCreate := r.PathPrefix("/api").Subrouter()

	apiCreate.Handle("/invite", api.Middleware(http.HandlerFunc(inv.InviteHandler))).Methods("POST")
	apiCreate.Handle("/invitations", api.Middleware(http.HandlerFunc(inv.InvitationsHandler))).Methods("GET")
	apiCreate.Handle("/invitations/accept", api.Middleware(http.HandlerFunc(inv.AcceptInvitationHandler))).Methods("POST")
	apiCreate.Handle("/invitations/decline", api.Middleware(http.HandlerFunc(inv.DeclineInvitationHandler))).Methods("POST")
	apiCreate.Handle("/search-activities", api.Middleware(http.HandlerFunc(search.SearchActivitiesHandler))).Methods("POST")

	return r
}

// Initialize is invoked by main to build the in-memory store, the hub and the router
func (a *App) Initialize() {
	a.Store = store.New()
	a.Hub = NewHub(store.NewActivityStore(a.Store))
	a.initializeRoutes()
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
