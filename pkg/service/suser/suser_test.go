package suser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/sqlitemem"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	defer cleanup()

	service := New(gen.New(db))

	user, err := service.Create(ctx, "ana@funil.dev", "Ana", "s3nh4-f0rte")
	require.NoError(t, err)
	assert.NotContains(t, string(user.PasswordHash), "s3nh4-f0rte")

	t.Run("Authenticate accepts the right password", func(t *testing.T) {
		got, err := service.Authenticate(ctx, "ana@funil.dev", "s3nh4-f0rte")
		require.NoError(t, err)
		assert.Equal(t, 0, got.ID.Compare(user.ID))
	})

	t.Run("Wrong password and unknown email fail alike", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "ana@funil.dev", "errada")
		assert.ErrorIs(t, err, ErrBadCredentials)
		_, err = service.Authenticate(ctx, "ninguem@funil.dev", "s3nh4-f0rte")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("Password reset round trip", func(t *testing.T) {
		token, err := service.StartPasswordReset(ctx, "ana@funil.dev")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		require.NoError(t, service.FinishPasswordReset(ctx, token, "nova-s3nh4"))

		_, err = service.Authenticate(ctx, "ana@funil.dev", "s3nh4-f0rte")
		assert.ErrorIs(t, err, ErrBadCredentials)
		_, err = service.Authenticate(ctx, "ana@funil.dev", "nova-s3nh4")
		assert.NoError(t, err)
	})

	t.Run("Reset token is single use", func(t *testing.T) {
		token, err := service.StartPasswordReset(ctx, "ana@funil.dev")
		require.NoError(t, err)
		require.NoError(t, service.FinishPasswordReset(ctx, token, "outra-s3nh4"))

		err = service.FinishPasswordReset(ctx, token, "mais-uma")
		assert.ErrorIs(t, err, ErrResetTokenNotValid)
	})

	t.Run("Bogus token", func(t *testing.T) {
		err := service.FinishPasswordReset(ctx, "nope", "x")
		assert.ErrorIs(t, err, ErrResetTokenNotValid)
	})
}
