package chi

import (
	"net/http"
	"strings"

	"github.com/serviplace/searchapi/internal/domain"
)

// actorIDHeader carries the acting user's identifier. The upstream gateway
// authenticates the user; this service trusts the header once the API key
// checks out.
const actorIDHeader = "X-Actor-Id"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens and
// stores the acting user in the request context. Keys in elevatedKeys mint
// elevated actors that bypass ownership checks. If apiKeys is empty,
// authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys, elevatedKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}
	elevated := make(map[string]struct{}, len(elevatedKeys))
	for _, k := range elevatedKeys {
		if k != "" {
			elevated[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled: pass everything through, actor from header only
		if len(validKeys) == 0 {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := domain.ContextWithActor(r.Context(), domain.Actor{ID: r.Header.Get(actorIDHeader)})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeBadRequest, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					codeBadRequest, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, codeBadRequest, "invalid api key")
				return
			}

			_, isElevated := elevated[token]
			actor := domain.Actor{
				ID:       r.Header.Get(actorIDHeader),
				Elevated: isElevated,
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithActor(r.Context(), actor)))
		})
	}
}
