package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/dailycost/internal/model"
)

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "password123")
	require.NoError(t, err)

	tests := []struct {
		name    string
		creds   model.Credentials
		wantErr error
	}{
		{"ok", model.Credentials{Username: "alice", Password: "password123"}, nil},
		{"wrong password", model.Credentials{Username: "alice", Password: "nope"}, model.ErrUnauthorized},
		{"unknown user", model.Credentials{Username: "mallory", Password: "password123"}, model.ErrUnauthorized},
		{"missing password", model.Credentials{Username: "alice"}, model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(ctx, tt.creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = svc.CreateUser(ctx, "alice", "password123")
	require.NoError(t, err)
	token, err := svc.Login(ctx, model.Credentials{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	clk.Advance(svc.tokenTTL + time.Minute)
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "password123")
	require.NoError(t, err)
	token, err := svc.Login(ctx, model.Credentials{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	authed, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(authed))

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := login(t, svc, "alice")

	u, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := login(t, svc, "alice")

	err := svc.ChangePassword(ctx, model.PasswordChange{CurrentPassword: "wrong", NewPassword: "newpassword"})
	assert.ErrorIs(t, err, model.ErrValidation)

	err = svc.ChangePassword(ctx, model.PasswordChange{CurrentPassword: "password123", NewPassword: "short"})
	assert.ErrorIs(t, err, model.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, model.PasswordChange{
		CurrentPassword: "password123",
		NewPassword:     "newpassword",
	}))

	_, err = svc.Login(context.Background(), model.Credentials{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = svc.Login(context.Background(), model.Credentials{Username: "alice", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestChangeUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := login(t, svc, "alice")
	login(t, svc, "bob")

	_, err := svc.ChangeUsername(ctx, model.UsernameChange{Username: " ab "})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "username")

	_, err = svc.ChangeUsername(ctx, model.UsernameChange{Username: "bob"})
	assert.ErrorIs(t, err, model.ErrConflict)

	u, err := svc.ChangeUsername(ctx, model.UsernameChange{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u, err = svc.ChangeUsername(ctx, model.UsernameChange{Username: "  alicia "})
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Username)

	_, err = svc.Login(context.Background(), model.Credentials{Username: "alicia", Password: "password123"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), model.Credentials{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "short")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.CreateUser(ctx, "alice", "password123")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "alice", "password123")
	assert.ErrorIs(t, err, model.ErrConflict)
}
