package main

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"blogspace/internal/core"
	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
)

// authenticate resolves an identity from the Authorization header when one
// is present. A missing header is fine (public routes), a malformed or
// invalid one is not.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorization := r.Header.Get("Authorization")
		if authorization != "" {
			authorizationParts := strings.Split(authorization, " ")
			if len(authorizationParts) != 2 || authorizationParts[0] != "Bearer" {
				app.unauthorizedResponse(w, r, "Authorization header must be in the format 'Bearer <token>'", nil)
				return
			}
			token := authorizationParts[1]
			claim, err := app.auth.ParseAccessToken(token)
			if err != nil {
				app.unauthorizedResponse(w, r, "Invalid or expired token", err)
				return
			}

			user, err := app.core.GetUserByID(r.Context(), claim.UserID)
			if err != nil {
				if errors.Is(err, core.NoRecordFound) {
					app.unauthorizedResponse(w, r, "Invalid or expired token", err)
					return
				}
				app.internalErrorResponse(w, r, err)
				return
			}
			r = app.auth.SetAuthenticatedUser(r, user)
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.auth.IsUserAuthenticated(r) {
			app.unauthorizedResponse(w, r, "Authentication required", xerrors.New("authentication required"))
			return
		}
		next(w, r)
	}
}

// requireRole is requireAuthenticatedUser plus a role gate.
func (app *application) requireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return app.requireAuthenticatedUser(func(w http.ResponseWriter, r *http.Request) {
		user, err := app.auth.GetAuthenticatedUser(r)
		if err != nil {
			app.unauthorizedResponse(w, r, "Authentication required", err)
			return
		}

		if !slices.Contains(roles, user.Role) {
			app.forbiddenResponse(w, r)
			return
		}

		next(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		next.ServeHTTP(w, r)

		app.logger.Debug("Handled request",
			"request_id", requestID,
			"request_method", r.Method,
			"request_url", r.URL.String(),
			"duration", time.Since(start).String(),
		)
	})
}
