package auth

import (
	"errors"
	"net/http"
	"time"

	"blogspace/internal/web"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"golang.org/x/crypto/bcrypt"
)

const (
	UserCtxKey = "user_data"

	// RefreshCookieName is the HTTP-only cookie carrying the refresh token.
	RefreshCookieName = "jwt"

	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

var (
	NotAuthenticatedUser = xerrors.Message("Not authenticated user")
	InvalidToken         = xerrors.Message("Invalid or expired token")
)

// Auth issues and verifies the two stateless tokens: a short-lived access
// token returned in response bodies and a long-lived refresh token that only
// ever travels in the refresh cookie. Validity is determined solely by
// signature and expiry, nothing is persisted.
type Auth struct {
	secret        []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	secureCookies bool
}

func New(secret string, accessTTL, refreshTTL time.Duration, secureCookies bool) *Auth {
	return &Auth{
		secret:        []byte(secret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

func (user *User) SetPassword(plainTextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), 12)

	if err != nil {
		return xerrors.New(err)
	}

	user.Password = hashedPassword
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

func (auth *Auth) IssueAccessToken(userID int64) (string, error) {
	return auth.generateToken(userID, tokenUseAccess, auth.accessTTL)
}

func (auth *Auth) IssueRefreshToken(userID int64) (string, error) {
	return auth.generateToken(userID, tokenUseRefresh, auth.refreshTTL)
}

func (auth *Auth) generateToken(userID int64, tokenUse string, duration time.Duration) (string, error) {
	expireAt := time.Now().Add(duration)
	claim := UserClaim{
		UserID:   userID,
		TokenUse: tokenUse,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(auth.secret)
	if err != nil {
		return "", xerrors.New(err)
	}
	return signedString, nil
}

func (auth *Auth) ParseAccessToken(tokenString string) (*UserClaim, error) {
	return auth.parseToken(tokenString, tokenUseAccess)
}

func (auth *Auth) ParseRefreshToken(tokenString string) (*UserClaim, error) {
	return auth.parseToken(tokenString, tokenUseRefresh)
}

func (auth *Auth) parseToken(tokenString string, tokenUse string) (*UserClaim, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return auth.secret, nil
	})

	if err != nil {
		return nil, xerrors.New(InvalidToken, err)
	}

	if !parsedToken.Valid {
		return nil, xerrors.New(InvalidToken)
	}

	claim, ok := parsedToken.Claims.(*UserClaim)
	if !ok {
		return nil, xerrors.New("could not parse claims")
	}

	// A refresh cookie must never be accepted as a bearer token, and the
	// other way around.
	if claim.TokenUse != tokenUse {
		return nil, xerrors.New(InvalidToken)
	}

	return claim, nil
}

// SetRefreshCookie delivers the refresh token exclusively through an
// HTTP-only cookie so client script can never read it.
func (auth *Auth) SetRefreshCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.refreshTTL.Seconds()),
		HttpOnly: true,
	}
	if auth.secureCookies {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

func (auth *Auth) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (auth *Auth) ReadRefreshCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return "", xerrors.New(InvalidToken, err)
	}
	return cookie.Value, nil
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	user, ok := web.GetValueFromContext[*User](r, UserCtxKey)
	if !ok {
		return nil, NotAuthenticatedUser
	}

	return user, nil
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User) *http.Request {
	return web.AddValueToContext(r, UserCtxKey, user)
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}
