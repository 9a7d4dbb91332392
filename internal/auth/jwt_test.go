package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/dailycost/internal/clock"
)

var now = time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("test-secret-key", 1, "alice", now, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken("test-secret-key", token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Time.Equal(now.Add(time.Hour)))
}

func TestTokensHaveUniqueIDs(t *testing.T) {
	a, err := GenerateToken("s", 1, "alice", now, 0)
	require.NoError(t, err)
	b, err := GenerateToken("s", 1, "alice", now, 0)
	require.NoError(t, err)

	ca, err := ValidateToken("s", a, now)
	require.NoError(t, err)
	cb, err := ValidateToken("s", b, now)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
	assert.True(t, ca.ExpiresAt.Time.Equal(now.Add(TokenExpiry)))
}

func TestValidateTokenRejects(t *testing.T) {
	token, err := GenerateToken("secret1", 1, "alice", now, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
		at     time.Time
	}{
		{"wrong secret", "secret2", token, now},
		{"garbage", "secret1", "not-a-token", now},
		{"expired", "secret1", token, now.Add(2 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.secret, tt.token, tt.at)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: 7, Username: "bob"})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), p.UserID)

	_, ok = PrincipalFromContext(WithPrincipal(context.Background(), Principal{}))
	assert.False(t, ok)
}

type revocations map[string]bool

func (r revocations) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func TestVerifier(t *testing.T) {
	clk := clock.NewStub(now)
	revoked := revocations{}
	v := NewVerifier("secret", revoked, clk)
	ctx := context.Background()

	token, err := v.Issue(3, "carol", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(ctx, token)
	require.NoError(t, err)
	p := claims.Principal()
	assert.Equal(t, int64(3), p.UserID)
	assert.Equal(t, "carol", p.Username)
	assert.Equal(t, claims.ID, p.TokenID)
	assert.True(t, p.ExpiresAt.Equal(now.Add(time.Hour)))

	revoked[claims.ID] = true
	_, err = v.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	delete(revoked, claims.ID)
	clk.Advance(2 * time.Hour)
	_, err = v.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
