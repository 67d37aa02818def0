package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/huddleup-app/huddleup-api/models"
)

var authenticator auth.Authenticator
var cache store.Cache

// Identity is the authenticated requester resolved from the session token.
type Identity struct {
	ID       string
	FullName string
}

type contextKey string

const identityKey contextKey = "identity"

// Middleware adds bearer session-token authentication around the HTTP routes
// and stashes the resolved identity in the request context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())
		ctx := context.WithValue(r.Context(), identityKey, Identity{ID: user.ID(), FullName: user.UserName()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequesterFrom returns the identity Middleware stored in the context.
func RequesterFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// IssueToken mints an opaque session token bound to the given user. Tokens are
// issued when a realtime client logs in or signs up; the client presents the
// token on the request/response surface.
func IssueToken(r *http.Request, u models.User) string {
	token := uuid.New().String()
	info := auth.NewDefaultUser(u.FullName, u.ID, nil, nil)
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, token, info, r)
	return token
}

// SetupGoGuardian sets up the go-guardian middleware
func SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), time.Hour*24)
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, cache)

	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}
