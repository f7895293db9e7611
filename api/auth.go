/*
auth.go - Login and token middleware

PURPOSE:
  Verifies credentials against the stored bcrypt hash and issues short-lived
  HS256 bearer tokens carrying username and role. Middleware gates employee
  and admin route groups.

SCOPE:
  Deliberately minimal: no refresh tokens, rotation, or lockout. The token
  exists so punch and admin endpoints know who is calling.
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/punchclock/payroll"
)

const tokenLifetime = 12 * time.Hour

type claimsKey struct{}

// Claims is the JWT payload: who is calling and with which role.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	acct, err := h.Store.GetAccount(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, payroll.ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load account", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}

	token, err := h.issueToken(acct)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		Username: acct.Username,
		Role:     string(acct.Role),
	})
}

// issueToken signs a fresh token against the real clock; token lifetime
// is independent of the punch clock.
func (h *Handler) issueToken(acct payroll.Account) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: acct.Username,
		Role:     string(acct.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
}

// RequireAuth validates the bearer token and stashes its claims in the
// request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Access token required", nil)
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		var claims Claims
		token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return h.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid access token", err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, &claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only admin accounts through. Must be nested inside
// RequireAuth.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || claims.Role != string(payroll.RoleAdmin) {
			writeError(w, http.StatusForbidden, "Admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}
