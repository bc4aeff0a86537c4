package main

import (
	"net/http"
)

func (app *application) getDashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.unauthorizedResponse(w, r, "Authentication required", err)
		return
	}

	stats, err := app.core.DashboardStats(r.Context(), user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"stats": stats}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
