package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/simplescore/simplescore-backend/internal/shared"
)

// Claims are the bearer token claims understood by the API.
// The subject names the player; Admin grants catalog maintenance routes.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the verified caller of a request.
type Identity struct {
	Username string
	Admin    bool
}

type identityKey struct{}

// IdentityFrom returns the identity stored by [RequireAuth].
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Authenticator verifies HMAC signed bearer tokens issued elsewhere.
type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator creates an [Authenticator]. An empty issuer accepts tokens from any issuer.
func NewAuthenticator(secret, issuer string) (*Authenticator, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: auth.jwt_secret is empty", shared.ErrMissingConfig)
	}
	return &Authenticator{secret: []byte(secret), issuer: issuer}, nil
}

// Verify parses and validates a token string.
func (a *Authenticator) Verify(tokenString string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", shared.ErrNotAuthenticated)
	}

	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", shared.ErrNotAuthenticated)
	}
	return Identity{Username: claims.Subject, Admin: claims.Admin}, nil
}

// Issue signs an HS256 token for subject that expires after ttl.
//
// The API only verifies tokens; issuing exists for operators and local testing.
func (a *Authenticator) Issue(subject string, admin bool, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: subject is empty", shared.ErrMissingArgument)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", shared.ErrInvalidArgument)
	}

	now := time.Now()
	claims := Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: missing bearer token", shared.ErrNotAuthenticated)
	}
	return strings.TrimSpace(token), nil
}

// RequireAuth rejects requests without a valid bearer token and stores the caller's [Identity] in the request context.
// A nil authenticator rejects every request.
func RequireAuth(a *Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil {
				writeError(w, r, fmt.Errorf("%w: authentication is not configured", shared.ErrNotAuthenticated))
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				writeError(w, r, err)
				return
			}

			id, err := a.Verify(token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin is [RequireAuth] plus a check of the admin claim.
func RequireAdmin(a *Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		adminOnly := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok || !id.Admin {
				writeError(w, r, fmt.Errorf("%w: admin privileges required", shared.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
		return RequireAuth(a)(adminOnly)
	}
}
