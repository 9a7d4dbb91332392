// Package service is the principal-scoped entry point to items and tags.
//
// Every exported operation except Login and Authenticate reads the caller
// from the context and returns model.ErrUnauthorized when none is present,
// before any storage access.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/dailycost/internal/auth"
	"github.com/erazemk/dailycost/internal/clock"
	"github.com/erazemk/dailycost/internal/model"
	"github.com/erazemk/dailycost/internal/store"
)

// Options tune a Service. Zero values pick defaults.
type Options struct {
	TokenTTL   time.Duration
	BcryptCost int
	Clock      clock.Clock
	Logger     *slog.Logger
}

// Service validates input, resolves the principal and dispatches to the store.
type Service struct {
	store    *store.Store
	verifier *auth.Verifier
	clock    clock.Clock
	logger   *slog.Logger

	tokenTTL   time.Duration
	bcryptCost int
}

// New returns a Service signing tokens with secret.
func New(st *store.Store, secret string, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = auth.TokenExpiry
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		store:      st,
		verifier:   auth.NewVerifier(secret, st, opts.Clock),
		clock:      opts.Clock,
		logger:     opts.Logger,
		tokenTTL:   opts.TokenTTL,
		bcryptCost: opts.BcryptCost,
	}
}

// Ping checks that storage is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// principal returns the caller attached to ctx.
func principal(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return auth.Principal{}, fmt.Errorf("no principal: %w", model.ErrUnauthorized)
	}
	return p, nil
}
