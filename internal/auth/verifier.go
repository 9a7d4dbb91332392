package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/dailycost/internal/clock"
)

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Verifier turns bearer tokens into principals.
type Verifier struct {
	secret  string
	revoked RevocationChecker
	clock   clock.Clock
}

// NewVerifier returns a Verifier. revoked may be nil to skip revocation checks.
func NewVerifier(secret string, revoked RevocationChecker, clk clock.Clock) *Verifier {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Verifier{secret: secret, revoked: revoked, clock: clk}
}

// Issue signs a token for a user.
func (v *Verifier) Issue(userID int64, username string, ttl time.Duration) (string, error) {
	return GenerateToken(v.secret, userID, username, v.clock.Now(), ttl)
}

// Verify validates tokenStr and returns the claims it carries.
// Storage failures during the revocation lookup are returned as-is,
// not as ErrInvalidToken.
func (v *Verifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	claims, err := ValidateToken(v.secret, tokenStr, v.clock.Now())
	if err != nil {
		return nil, err
	}

	if v.revoked != nil {
		revoked, err := v.revoked.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("checking revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
	}

	return claims, nil
}

// Principal converts verified claims into a Principal.
func (c *Claims) Principal() Principal {
	p := Principal{UserID: c.UserID, Username: c.Username, TokenID: c.ID}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}
