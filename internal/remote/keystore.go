package remote

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dvenki/dvenki/internal/config"
	"github.com/zalando/go-keyring"
)

// KeyStore keeps the data API key in the OS keyring, keyed by user.
type KeyStore struct {
	Service string
}

func NewKeyStore() *KeyStore {
	return &KeyStore{Service: config.KeyringService}
}

// Get returns the stored key for user. A missing secret yields an empty key
// and no error.
func (k *KeyStore) Get(user string) (string, error) {
	key, err := keyring.Get(k.Service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrKeyringGet, err)
	}
	return key, nil
}

func (k *KeyStore) Set(user, key string) error {
	if key == "" {
		return errors.New(config.ErrKeyEmpty)
	}
	if err := keyring.Set(k.Service, user, key); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	slog.Info(config.MsgKeySaved, config.LogKeyComponent, config.CompImporter, config.LogKeyKey, user)
	return nil
}

// Resolve prefers an explicit key and falls back to the keyring.
func (k *KeyStore) Resolve(user, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	key, err := k.Get(user)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", errors.New(config.ErrKeyEmpty)
	}
	return key, nil
}
