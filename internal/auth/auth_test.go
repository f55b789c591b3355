package auth

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
)

type mapStore map[string]string

func (m mapStore) GetSetting(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", sql.ErrNoRows
	}
	return v, nil
}

func (m mapStore) SetSetting(key, value string) error {
	m[key] = value
	return nil
}

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	b, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	if !strings.HasPrefix(a, KeyPrefix) {
		t.Errorf("key %q missing prefix %q", a, KeyPrefix)
	}
	// 32 random bytes encode to 43 base64url characters.
	if got := len(a) - len(KeyPrefix); got != 43 {
		t.Errorf("key body length = %d, want 43", got)
	}
	if a == b {
		t.Error("two generated keys are identical")
	}
}

func TestHashAndCheckKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	hash, err := HashKey(key)
	if err != nil {
		t.Fatalf("HashKey: %v", err)
	}
	if hash == key {
		t.Fatal("hash equals plaintext key")
	}

	if err := CheckKey(key, hash); err != nil {
		t.Errorf("CheckKey(correct) = %v, want nil", err)
	}
	if err := CheckKey(key+"x", hash); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("CheckKey(wrong) = %v, want ErrInvalidKey", err)
	}
	if err := CheckKey("", hash); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("CheckKey(empty key) = %v, want ErrInvalidKey", err)
	}
	if err := CheckKey(key, ""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("CheckKey(empty hash) = %v, want ErrInvalidKey", err)
	}
}

func TestHashKeyRejectsEmpty(t *testing.T) {
	if _, err := HashKey("  "); err == nil {
		t.Error("HashKey(blank) = nil error, want error")
	}
}

func TestEnsureCreatesKeyOnce(t *testing.T) {
	store := mapStore{}

	key, err := Ensure(store)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if key == "" {
		t.Fatal("first Ensure returned no key")
	}
	if store[HashSetting] == "" || store[HashSetting] == key {
		t.Fatalf("stored hash = %q, want a bcrypt hash", store[HashSetting])
	}

	again, err := Ensure(store)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if again != "" {
		t.Errorf("second Ensure = %q, want empty (key already exists)", again)
	}
	if err := Verify(store, key); err != nil {
		t.Errorf("Verify(original key) = %v", err)
	}
}

func TestRotateInvalidatesOldKey(t *testing.T) {
	store := mapStore{}
	old, _ := Rotate(store)
	fresh, err := Rotate(store)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if err := Verify(store, fresh); err != nil {
		t.Errorf("Verify(new key) = %v", err)
	}
	if err := Verify(store, old); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Verify(old key) = %v, want ErrInvalidKey", err)
	}
}

func TestVerifyWithoutStoredKey(t *testing.T) {
	if err := Verify(mapStore{}, "pfy_anything"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Verify = %v, want ErrInvalidKey", err)
	}
}
