package auth

import "sync"

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	mu        sync.Mutex
	passwords map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{passwords: make(map[string]string)}
}

func (m *MockStore) SetPassword(device string, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwords[NormalizeDevice(device)] = password
	return nil
}

func (m *MockStore) GetPassword(device string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	password, ok := m.passwords[NormalizeDevice(device)]
	if !ok {
		return "", ErrPasswordNotFound
	}
	return password, nil
}

func (m *MockStore) DeletePassword(device string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := NormalizeDevice(device)
	if _, ok := m.passwords[key]; !ok {
		return ErrPasswordNotFound
	}
	delete(m.passwords, key)
	return nil
}
