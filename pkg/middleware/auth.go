package middleware

import (
	"net/http"
	"strings"

	"clinicslots/pkg/auth"
	apperrors "clinicslots/pkg/errors"
	httputil "clinicslots/pkg/http"
	"clinicslots/pkg/logger"
)

// Authenticate resolves a bearer token into an auth.Identity on the request
// context. Requests without a token pass through anonymously; handlers decide
// whether an identity is required. A present but invalid token is rejected.
func Authenticate(authorizer auth.Authorizer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Authorization header must use the Bearer scheme"))
				return
			}

			identity, err := authorizer.Authorize(strings.TrimSpace(token))
			if err != nil {
				log.Warn("Rejected bearer token",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.Unauthorized("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
