// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for ratatouille.
// It stores the admin user key (or the raw cookie string it was copied from) in the
// OS credential store so the CLI can attach it to webhook requests without keeping
// secrets in the config file.
//
// macOS uses the native security command with the keyring library as fallback,
// Windows uses Credential Manager, Linux uses the Secret Service, KWallet or pass.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "ratatouille"

// Keys used for storing secrets in the OS keychain.
const (
	KeyAdminUserKey = "admin_user_key"
	KeyCookie       = "cookie"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
// There is no encrypted-file fallback.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends,
		PassPrefix:              ServiceName,
		LibSecretCollectionName: "login",
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// set stores one value; callers hold m.mu.
func (m *Manager) set(key, value string) error {
	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Label: ServiceName + " " + key, Data: []byte(value)})
}

// get loads one value; callers hold m.mu. Missing and empty values are ErrNotFound.
func (m *Manager) get(key string) (string, error) {
	if m.backend != nil {
		v, err := m.backend.Get(key)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", ErrNotFound
		}
		return v, nil
	}

	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

// remove deletes one value, ignoring missing keys; callers hold m.mu.
func (m *Manager) remove(key string) {
	if m.backend != nil {
		_ = m.backend.Delete(key)
		return
	}
	_ = m.ring.Remove(key)
}

// SaveAdminUserKey stores the admin user key.
// This method is thread-safe.
func (m *Manager) SaveAdminUserKey(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == "" {
		return errors.New("empty admin user key")
	}
	return m.set(KeyAdminUserKey, key)
}

// LoadAdminUserKey retrieves the admin user key.
// This method is thread-safe.
func (m *Manager) LoadAdminUserKey() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(KeyAdminUserKey)
}

// SaveCookie stores a raw cookie string the admin user key is looked up in.
// This method is thread-safe.
func (m *Manager) SaveCookie(cookies string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cookies == "" {
		return errors.New("empty cookie string")
	}
	return m.set(KeyCookie, cookies)
}

// LoadCookie retrieves the stored cookie string.
// This method is thread-safe.
func (m *Manager) LoadCookie() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(KeyCookie)
}

// ClearAuth removes all credential material from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(KeyAdminUserKey)
	m.remove(KeyCookie)
	return nil
}
