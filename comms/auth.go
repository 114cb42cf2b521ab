package comms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/render"
)

// DefaultTokenLifespan is used when issuing tokens without an explicit ttl.
const DefaultTokenLifespan = time.Hour

type contextKey string

const jwtContextKey contextKey = "jwt"

var (
	ErrTokenEmpty   = errors.New("bearer token not provided")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenPayload is the body returned when a token is issued.
type TokenPayload struct {
	SignedToken string `json:"token"`
}

// NewToken produces a standard format JWT for sub signed with secret.
func NewToken(secret []byte, issuer, sub string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenLifespan
	}

	now := time.Now().UTC()
	claims := jwt.StandardClaims{
		Issuer:    issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
		Subject:   sub,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(secret)
}

// ParseToken validates tokenStr against secret and returns its claims.
func ParseToken(secret []byte, tokenStr string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateJWT requires a token signed with secret on every request. The token
// is looked up in the jwt query parameter, the Authorization header and the
// jwt cookie, in that order. Browsers cannot set headers on websocket
// upgrades, hence the query parameter.
func ValidateJWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.URL.Query().Get("jwt")

			if tokenStr == "" {
				bearer := r.Header.Get("Authorization")
				if len(bearer) > 7 && strings.ToUpper(bearer[0:6]) == "BEARER" {
					tokenStr = bearer[7:]
				}
			}

			if tokenStr == "" {
				if cookie, err := r.Cookie("jwt"); err == nil {
					tokenStr = cookie.Value
				}
			}

			if tokenStr == "" {
				render.Render(w, r, ErrUnauthorized(ErrTokenEmpty))
				return
			}

			claims, err := ParseToken(secret, tokenStr)
			if err != nil {
				render.Render(w, r, ErrUnauthorized(err))
				return
			}

			ctx := context.WithValue(r.Context(), jwtContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by ValidateJWT.
func ClaimsFromContext(ctx context.Context) (*jwt.StandardClaims, bool) {
	claims, ok := ctx.Value(jwtContextKey).(*jwt.StandardClaims)
	return claims, ok
}

// refreshToken issues a new token for the subject of the current one.
func (a *API) refreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		render.Render(w, r, ErrUnauthorized(ErrTokenEmpty))
		return
	}

	tokenStr, err := NewToken(a.Secret, a.Issuer, claims.Subject, DefaultTokenLifespan)
	if err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}

	render.JSON(w, r, TokenPayload{tokenStr})
}
