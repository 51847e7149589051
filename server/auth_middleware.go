package server

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the session token presented by the caller
	ContextKeySession ContextKey = "session"
	// ContextKeyRequestID stores the id assigned to the request
	ContextKeyRequestID ContextKey = "request_id"
)

// SessionMiddleware takes the session token from the session query parameter
// or, failing that, from an "Authorization: Bearer" header. It does not
// validate the token; every protected operation resolves it itself.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get(paramSession)
		if token == "" {
			token = bearerToken(r.Header.Get("Authorization"))
		}
		ctx := context.WithValue(r.Context(), ContextKeySession, token)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ContextKeySession).(string)
	return token
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}
