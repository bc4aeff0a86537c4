package main

import (
	"errors"
	"net/http"
	"strings"

	"blogspace/internal/auth"
	"blogspace/internal/core"
	"blogspace/internal/validator"
)

// issueTokens mints the access/refresh pair for a user. The access token
// goes back in the body, the refresh token only ever in the HTTP-only
// cookie.
func (app *application) issueTokens(w http.ResponseWriter, userID int64) (string, error) {
	accessToken, err := app.auth.IssueAccessToken(userID)
	if err != nil {
		return "", err
	}

	refreshToken, err := app.auth.IssueRefreshToken(userID)
	if err != nil {
		return "", err
	}

	app.auth.SetRefreshCookie(w, refreshToken)
	return accessToken, nil
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	type registerUserPayload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var registerUserRequest registerUserPayload

	if err := app.readJSON(w, r, &registerUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user := &auth.User{
		Name:  strings.TrimSpace(registerUserRequest.Name),
		Email: strings.TrimSpace(registerUserRequest.Email),
		Role:  registerUserRequest.Role,
	}

	if user.Role == "" {
		user.Role = auth.RoleReader
	}

	v := validator.New()
	v.CheckNotBlank(user.Name, "name", "must be provided")
	checkEmail(v, user.Email)
	v.CheckNotBlank(registerUserRequest.Password, "password", "must be provided")
	v.Check(len(registerUserRequest.Password) >= 8, "password", "must be at least 8 characters long")
	v.Check(auth.IsValidRole(user.Role), "role", "must be one of admin, author or reader")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	if err := user.SetPassword(registerUserRequest.Password); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			v.AddError("email", "Email address is already in use")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	accessToken, err := app.issueTokens(w, user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, userResponse(user, accessToken), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	type loginUserPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var loginUserRequest loginUserPayload

	if err := app.readJSON(w, r, &loginUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	checkEmail(v, loginUserRequest.Email)
	v.CheckNotBlank(loginUserRequest.Password, "password", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), loginUserRequest.Email)
	if err != nil {
		switch {
		// Same response as a wrong password so the body never reveals
		// whether the email exists.
		case errors.Is(err, core.NoRecordFound):
			app.unauthorizedResponse(w, r, "Invalid email or password", err)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	match, err := user.IsPasswordMatch(loginUserRequest.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.unauthorizedResponse(w, r, "Invalid email or password", nil)
		return
	}

	accessToken, err := app.issueTokens(w, user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(user, accessToken), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// refreshTokenHandler exchanges a valid refresh cookie for a fresh access
// token and rotates the cookie. A failure here is terminal for the client
// session, no token is issued.
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := app.auth.ReadRefreshCookie(r)
	if err != nil {
		app.unauthorizedResponse(w, r, "Not authorized, no refresh token", err)
		return
	}

	claim, err := app.auth.ParseRefreshToken(refreshToken)
	if err != nil {
		app.unauthorizedResponse(w, r, "Not authorized, token failed", err)
		return
	}

	accessToken, err := app.issueTokens(w, claim.UserID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"token": accessToken}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// logoutHandler only clears the refresh cookie. Access tokens are stateless
// and stay valid until they expire.
func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	app.auth.ClearRefreshCookie(w)

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Logged out successfully"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getMeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.unauthorizedResponse(w, r, "Authentication required", err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func userResponse(user *auth.User, token string) envelope {
	return envelope{
		"user":  user,
		"token": token,
	}
}
