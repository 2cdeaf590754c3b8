package stoken_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/stoken"
)

var secret = []byte("test-secret-0123456789")

func TestRoundTrip(t *testing.T) {
	userID := idwrap.NewNow()
	raw, err := stoken.New(userID, secret, time.Now(), time.Hour)
	require.NoError(t, err)

	got, err := stoken.Validate(raw, secret)
	require.NoError(t, err)
	assert.Equal(t, 0, userID.Compare(got))
}

func TestExpiredToken(t *testing.T) {
	raw, err := stoken.New(idwrap.NewNow(), secret, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = stoken.Validate(raw, secret)
	assert.ErrorIs(t, err, stoken.ErrExpiredToken)
}

func TestWrongSecret(t *testing.T) {
	raw, err := stoken.New(idwrap.NewNow(), secret, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = stoken.Validate(raw, []byte("other-secret"))
	assert.ErrorIs(t, err, stoken.ErrInvalidToken)
}

func TestGarbageToken(t *testing.T) {
	_, err := stoken.Validate("not-a-jwt", secret)
	assert.ErrorIs(t, err, stoken.ErrInvalidToken)
}
