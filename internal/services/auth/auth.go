// Package auth stores NetProfiler device passwords in the OS keychain.
package auth

import (
	"errors"
	"os"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/util"
)

const ServiceName = "nprof"

// EnvPasswordPrefix prefixes per-device password overrides, e.g.
// NPROF_PASSWORD_NP1 for device "np1". They are typically supplied through
// an --env-file.
const EnvPasswordPrefix = "NPROF_PASSWORD_"

var ErrPasswordNotFound = errors.New("device password not found")

type Store interface {
	SetPassword(device string, password string) error
	GetPassword(device string) (string, error)
	DeletePassword(device string) error
}

// DefaultStore returns the keychain store with environment overrides.
func DefaultStore() Store {
	return NewEnvStore(NewKeyringStore(ServiceName))
}

// NormalizeDevice normalizes a device name for consistent key lookup.
func NormalizeDevice(device string) string {
	return util.NormalizeKey(device)
}

// EnvVar returns the override variable name for device.
func EnvVar(device string) string {
	key := strings.ToUpper(NormalizeDevice(device))
	key = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, key)
	return EnvPasswordPrefix + key
}

// EnvStore reads passwords from the environment before falling back to
// another store. Writes always go to the fallback.
type EnvStore struct {
	Store
}

func NewEnvStore(fallback Store) *EnvStore {
	return &EnvStore{Store: fallback}
}

func (e *EnvStore) GetPassword(device string) (string, error) {
	if v := os.Getenv(EnvVar(device)); v != "" {
		return v, nil
	}
	return e.Store.GetPassword(device)
}
