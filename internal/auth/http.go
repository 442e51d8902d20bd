package auth

import (
	"net/http"

	"geoMaster/internal/logging"
	"geoMaster/models"
)

// Middleware injects the Principal for requests carrying a valid Bearer token.
// Requests without one pass through anonymously; handlers decide what to
// require. A present but invalid token is rejected with 401.
func Middleware(secret string, onReject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, err := ParseBearer(header, secret)
			if err != nil {
				logging.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				onReject(w, r, models.ErrUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
