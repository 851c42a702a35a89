package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Simplici0/orca/internal/accounts"
)

const sessionCookieName = "orca_session"

var errInvalidSession = errors.New("invalid session")

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	sessionSecret []byte
	ttl           time.Duration
	secureCookie  bool
	now           func() time.Time
}

func newAuthService(sessionSecret string, ttl time.Duration, secureCookie bool) *authService {
	secret := []byte(sessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("generate session secret: %v", err)
		}
		log.Print("warning: using a random session secret; sessions end on restart")
	}
	return &authService{sessionSecret: secret, ttl: ttl, secureCookie: secureCookie, now: time.Now}
}

func (a *authService) createSessionValue(u accounts.User) (string, time.Time, error) {
	issued := a.now()
	expires := issued.Add(a.ttl)
	claims := sessionClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.sessionSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expires, nil
}

// verifySessionValue returns the user id carried by a valid, unexpired token.
func (a *authService) verifySessionValue(value string) (int64, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return a.sessionSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidSession, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidSession
	}
	return id, nil
}

func (a *authService) setSessionCookie(w http.ResponseWriter, u accounts.User) error {
	token, expires, err := a.createSessionValue(u)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken reads the token from the session cookie or a bearer header.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

type userContextKey struct{}

func userFromContext(ctx context.Context) (accounts.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(accounts.User)
	return u, ok
}

func (s *server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.auth.verifySessionValue(sessionToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "sessão inválida ou expirada")
			return
		}

		u, err := s.accounts.Get(r.Context(), id)
		if errors.Is(err, accounts.ErrUserNotFound) || (err == nil && !u.Active) {
			writeError(w, http.StatusUnauthorized, "sessão inválida ou expirada")
			return
		}
		if err != nil {
			log.Printf("load session user %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "erro ao carregar usuário")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey{}, u)))
	})
}

func (s *server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userFromContext(r.Context())
		if !ok || !u.Admin {
			writeError(w, http.StatusForbidden, "acesso restrito a administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}

	u, err := s.accounts.Authenticate(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Email ou senha incorretos.")
		return
	}
	if err != nil {
		log.Printf("authenticate: %v", err)
		writeError(w, http.StatusInternalServerError, "erro de autenticação")
		return
	}

	if err := s.auth.setSessionCookie(w, u); err != nil {
		log.Printf("set session: %v", err)
		writeError(w, http.StatusInternalServerError, "erro de autenticação")
		return
	}
	writeJSON(w, http.StatusOK, newProfile(u))
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type profile struct {
	accounts.User
	PlanInfo  accounts.PlanInfo `json:"plan_info"`
	Remaining int               `json:"remaining_projects"`
}

func newProfile(u accounts.User) profile {
	return profile{User: u, PlanInfo: accounts.LookupPlan(u.Plan), Remaining: u.Remaining()}
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, newProfile(u))
}
