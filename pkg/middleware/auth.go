package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// MemberIDKey is the context key for the acting member's ID
	MemberIDKey ContextKey = "member_id"
)

// ActingMember resolves which member is making the request. Real
// authentication is handled by the deployment's gateway; this middleware
// only reads the forwarded identity header, defaulting to member 1 for
// local development.
func ActingMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := int64(1)
		if v := r.Header.Get("X-Member-ID"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				memberID = id
			}
		}

		ctx := context.WithValue(r.Context(), MemberIDKey, memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetMemberID extracts the acting member's ID from the request context
func GetMemberID(ctx context.Context) (int64, bool) {
	memberID, ok := ctx.Value(MemberIDKey).(int64)
	return memberID, ok
}
