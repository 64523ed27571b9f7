package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		TokenSecret: "test-secret",
		Issuer:      "taskboard",
	}
}

func TestTokenResolver_RoundTrip(t *testing.T) {
	resolver := NewTokenResolver(testAuthConfig())
	actor := Actor{ID: 42, Name: "Ada"}

	token, err := resolver.IssueToken(actor, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, ok := resolver.ResolveActor(token)
	require.True(t, ok)
	assert.Equal(t, actor, resolved)
}

func TestTokenResolver_ResolveActor(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "empty token resolves to no actor",
			token: func(t *testing.T) string { return "" },
		},
		{
			name:  "garbage token resolves to no actor",
			token: func(t *testing.T) string { return "not.a.jwt" },
		},
		{
			name: "token signed with a different secret is rejected",
			token: func(t *testing.T) string {
				other := NewTokenResolver(config.AuthConfig{TokenSecret: "other-secret", Issuer: "taskboard"})
				token, err := other.IssueToken(Actor{ID: 1, Name: "Eve"}, time.Hour)
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "token from a different issuer is rejected",
			token: func(t *testing.T) string {
				other := NewTokenResolver(config.AuthConfig{TokenSecret: "test-secret", Issuer: "someone-else"})
				token, err := other.IssueToken(Actor{ID: 1, Name: "Eve"}, time.Hour)
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired token is rejected",
			token: func(t *testing.T) string {
				resolver := NewTokenResolver(testAuthConfig())
				token, err := resolver.IssueToken(Actor{ID: 1, Name: "Ada"}, -time.Hour)
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewTokenResolver(testAuthConfig())

			_, ok := resolver.ResolveActor(tt.token(t))

			assert.False(t, ok)
		})
	}
}

func TestTokenResolver_NoSecretConfigured(t *testing.T) {
	resolver := NewTokenResolver(config.AuthConfig{Issuer: "taskboard"})

	_, ok := resolver.ResolveActor("any-token")
	assert.False(t, ok)

	_, err := resolver.IssueToken(Actor{ID: 1, Name: "Ada"}, time.Hour)
	assert.Error(t, err)
}
