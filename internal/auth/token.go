package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/config"
)

// actorClaims is the internal claims type used for JWT parsing.
type actorClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// TokenResolver turns bearer tokens into actor identities. It is the
// boundary to the external authentication collaborator: everything
// past it works with a resolved Actor or none.
type TokenResolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenResolver creates a resolver from auth configuration.
func NewTokenResolver(cfg config.AuthConfig) *TokenResolver {
	return &TokenResolver{
		secret: []byte(cfg.TokenSecret),
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// ResolveActor validates a bearer token and returns the actor it
// carries. An empty or invalid token resolves to no actor.
func (r *TokenResolver) ResolveActor(token string) (Actor, bool) {
	if token == "" || len(r.secret) == 0 {
		return Actor{}, false
	}

	claims := &actorClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	}, jwt.WithIssuer(r.issuer), jwt.WithTimeFunc(r.now))
	if err != nil || !parsed.Valid {
		return Actor{}, false
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Actor{}, false
	}

	return Actor{ID: id, Name: claims.Name}, true
}

// IssueToken mints a signed token for an actor. Used by the seed
// command and tests; a real deployment would have an identity
// provider mint these.
func (r *TokenResolver) IssueToken(actor Actor, ttl time.Duration) (string, error) {
	if len(r.secret) == 0 {
		return "", fmt.Errorf("no token secret configured")
	}

	now := r.now()
	claims := actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    r.issuer,
			Subject:   strconv.FormatInt(actor.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: actor.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
