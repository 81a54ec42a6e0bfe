package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// AuthPolicy decides which requests need a bearer token.
type AuthPolicy struct {
	APIKeys []string
	// PublicReads lets GET and HEAD requests through without a token.
	// Cache administration stays protected.
	PublicReads bool
}

// BearerAuthMiddleware validates Bearer tokens against the policy keys.
// With no keys configured, authentication is disabled (pass-through).
func BearerAuthMiddleware(p AuthPolicy) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range p.APIKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok || (p.PublicReads && isRead(r)) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			switch {
			case !ok:
				unauthorized(w, "authorization header must carry a Bearer token")
			case !validKey(keys, token):
				unauthorized(w, "invalid api key")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func isRead(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// bearerToken extracts the token; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// validKey compares against every key in constant time.
func validKey(keys [][]byte, token string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	return found == 1
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="chartref"`)
	writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
}
