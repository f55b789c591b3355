package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// KeyPrefix marks promptify access keys so they are recognisable in config files and shell history.
const KeyPrefix = "pfy_"

// ErrInvalidKey is returned when a presented access key does not match the stored hash.
var ErrInvalidKey = errors.New("invalid access key")

// GenerateKey produces a cryptographically random access key
// (32 bytes, base64url-encoded, prefixed with KeyPrefix).
func GenerateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return KeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// HashKey hashes an access key with bcrypt at the default cost.
func HashKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("hash key: key is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(hash), nil
}

// CheckKey compares a presented access key against a bcrypt hash.
func CheckKey(key, hash string) error {
	if key == "" || hash == "" {
		return ErrInvalidKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return ErrInvalidKey
	}
	return nil
}

// HashSetting is the settings key holding the bcrypt hash of the current access key.
const HashSetting = "access_key_hash"

// KeyStore persists the access key hash. The database implements it.
type KeyStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Rotate replaces any stored key with a new one and returns the plaintext.
// The plaintext is never stored, so this is the only chance to show it.
func Rotate(store KeyStore) (string, error) {
	key, err := GenerateKey()
	if err != nil {
		return "", err
	}
	hash, err := HashKey(key)
	if err != nil {
		return "", err
	}
	if err := store.SetSetting(HashSetting, hash); err != nil {
		return "", fmt.Errorf("store key hash: %w", err)
	}
	return key, nil
}

// Ensure creates a key when none is stored. It returns the new plaintext,
// or "" when a key already exists.
func Ensure(store KeyStore) (string, error) {
	if hash, err := store.GetSetting(HashSetting); err == nil && hash != "" {
		return "", nil
	}
	return Rotate(store)
}

// Verify checks a presented key against the stored hash.
func Verify(store KeyStore, key string) error {
	hash, err := store.GetSetting(HashSetting)
	if err != nil {
		return ErrInvalidKey
	}
	return CheckKey(key, hash)
}
