package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/fhuszti/movies-ms-go/internal/api_context"
	"github.com/fhuszti/movies-ms-go/internal/handler/api"
	"github.com/fhuszti/movies-ms-go/internal/logger"
	"github.com/golang-jwt/jwt/v4"
)

// allowed clock skew on iat
const iatLeeway = 30 * time.Second

// AuthConfig selects where verification keys come from and which claims are enforced.
// With neither PublicKeyPEM nor JWKSURL set, authentication is disabled.
type AuthConfig struct {
	PublicKeyPEM string
	JWKSURL      string
	Issuer       string
	Audience     string
}

// Enabled reports whether a key source is configured.
func (c AuthConfig) Enabled() bool {
	return c.PublicKeyPEM != "" || c.JWKSURL != ""
}

// NewKeyfunc builds the key lookup for the configured source. The returned stop
// function releases the JWKS background refresh and is always safe to call.
func NewKeyfunc(cfg AuthConfig) (jwt.Keyfunc, func(), error) {
	switch {
	case cfg.PublicKeyPEM != "":
		pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, func() {}, fmt.Errorf("invalid RSA public key: %w", err)
		}
		return func(*jwt.Token) (interface{}, error) { return pubKey, nil }, func() {}, nil

	case cfg.JWKSURL != "":
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Errorf(context.Background(), "❌  Failed to refresh JWKS from %s: %v", cfg.JWKSURL, err)
			},
		})
		if err != nil {
			return nil, func() {}, fmt.Errorf("could not load JWKS from %s: %w", cfg.JWKSURL, err)
		}
		return jwks.Keyfunc, jwks.EndBackground, nil
	}
	return nil, func() {}, errors.New("no verification key configured")
}

// WithJWTAuth validates a Bearer RS256 JWT and stashes its subject and roles in
// the request context. A nil keyFunc lets every request through.
func WithJWTAuth(keyFunc jwt.Keyfunc, issuer, audience string) func(http.Handler) http.Handler {
	if keyFunc == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}),
		jwt.WithJSONNumber(),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				api.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			claims := jwt.MapClaims{}
			tok, err := parser.ParseWithClaims(raw, claims, keyFunc)
			if err != nil || !tok.Valid {
				api.WriteError(w, http.StatusUnauthorized, "unauthorized", err)
				return
			}

			if issuer != "" && !claims.VerifyIssuer(issuer, true) {
				api.WriteError(w, http.StatusUnauthorized, "bad issuer", nil)
				return
			}
			if audience != "" && !claims.VerifyAudience(audience, true) {
				api.WriteError(w, http.StatusUnauthorized, "bad audience", nil)
				return
			}
			if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
				api.WriteError(w, http.StatusUnauthorized, "token expired", nil)
				return
			}
			if iat, ok := asInt64(claims["iat"]); ok && time.Unix(iat, 0).After(time.Now().Add(iatLeeway)) {
				api.WriteError(w, http.StatusUnauthorized, "invalid iat", nil)
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				api.WriteError(w, http.StatusUnauthorized, "missing sub", nil)
				return
			}
			roles := toStringSlice(claims["roles"])

			ctx := context.WithValue(r.Context(), api_context.AuthUserIDKey, sub)
			ctx = context.WithValue(ctx, api_context.AuthRolesKey, roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int64:
		return x, true
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, true
		}
		if f, err := x.Float64(); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Fields(vv)
	default:
		return nil
	}
}
