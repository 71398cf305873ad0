package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/sas-financier/internal/models"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type roleResolver interface {
	Resolve(ctx context.Context, uid string) models.Capabilities
}

type Middleware struct {
	AuthClient tokenVerifier
	Roles      roleResolver
}

func NewMiddleware(client tokenVerifier, roles roleResolver) *Middleware {
	return &Middleware{AuthClient: client, Roles: roles}
}

// context key
type contextKey string

const (
	UIDKey   contextKey = "uid"
	ActorKey contextKey = "actor"
)

// FirebaseAuth verifies the bearer ID token and puts the caller's UID in
// the context.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		tokenStr := parts[1]

		// Verify ID Token
		token, err := m.AuthClient.VerifyIDToken(r.Context(), tokenStr)
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		// Add UID to context
		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResolveActor looks up the role of the authenticated caller once per
// request. Must run after FirebaseAuth.
func (m *Middleware) ResolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := UID(r.Context())
		actor := models.Actor{UID: uid}
		if uid != "" {
			actor.Capabilities = m.Roles.Resolve(r.Context(), uid)
		}

		ctx := logger.WithCaller(r.Context(), uid, string(actor.Role))
		ctx = context.WithValue(ctx, ActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

// Actor returns the resolved caller. Without ResolveActor in the chain it
// falls back to a role-less actor for the authenticated UID.
func Actor(ctx context.Context) models.Actor {
	if actor, ok := ctx.Value(ActorKey).(models.Actor); ok {
		return actor
	}
	return models.Actor{UID: UID(ctx)}
}
