package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetPassword(device string, password string) error {
	return keyring.Set(k.serviceName, NormalizeDevice(device), password)
}

func (k *KeyringStore) GetPassword(device string) (string, error) {
	password, err := keyring.Get(k.serviceName, NormalizeDevice(device))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrPasswordNotFound
	}
	return password, err
}

func (k *KeyringStore) DeletePassword(device string) error {
	err := keyring.Delete(k.serviceName, NormalizeDevice(device))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrPasswordNotFound
	}
	return err
}
