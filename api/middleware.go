package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/numboxia/chainsign/auth"
)

// requireIdentity resolves the caller identity from the Authorization
// bearer token and stores it in the request context. Requests without
// a valid token get 401.
func (a *API) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.auth == nil {
			a.writeError(w, http.StatusUnauthorized, errors.New("no authenticator configured"))
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			a.writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		identity, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			a.writeError(w, http.StatusUnauthorized, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
