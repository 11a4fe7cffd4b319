package remote_test

import (
	"testing"

	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyStore_SetGet(t *testing.T) {
	keyring.MockInit()
	ks := remote.NewKeyStore()

	key, err := ks.Get("anna")
	require.NoError(t, err)
	assert.Empty(t, key, "missing secret is not an error")

	require.NoError(t, ks.Set("anna", "secret-key"))

	key, err = ks.Get("anna")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", key)
}

func TestKeyStore_SetEmpty(t *testing.T) {
	keyring.MockInit()
	err := remote.NewKeyStore().Set("anna", "")
	require.Error(t, err)
	assert.Equal(t, config.ErrKeyEmpty, err.Error())
}

func TestKeyStore_Resolve(t *testing.T) {
	keyring.MockInit()
	ks := remote.NewKeyStore()

	_, err := ks.Resolve("bob", "")
	assert.EqualError(t, err, config.ErrKeyEmpty)

	key, err := ks.Resolve("bob", "flag-key")
	require.NoError(t, err)
	assert.Equal(t, "flag-key", key)

	require.NoError(t, ks.Set("bob", "stored"))
	key, err = ks.Resolve("bob", "")
	require.NoError(t, err)
	assert.Equal(t, "stored", key)
}

func TestKeyStore_BackendError(t *testing.T) {
	keyring.MockInitWithError(assert.AnError)
	_, err := remote.NewKeyStore().Get("anna")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), config.ErrKeyringGet)
}
