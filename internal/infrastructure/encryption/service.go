package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"git-away/internal/config"
)

// sealedPrefix versions the stored format so the key or cipher can be rotated
const sealedPrefix = "v1:"

// ErrUnreadableToken is returned when a stored token cannot be opened: it was
// sealed with another key, for another credential, or is corrupt.
var ErrUnreadableToken = errors.New("stored token cannot be decrypted")

// EncryptionService seals OAuth tokens before they reach the database.
// Every sealed token is bound to the credential it was issued for, so a
// ciphertext copied onto another account row does not open.
type EncryptionService struct {
	aead cipher.AEAD
}

// NewEncryptionService creates an AES-256-GCM service from the configured key
func NewEncryptionService(cfg config.EncryptionConfig) (*EncryptionService, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required (32-byte base64-encoded key)")
	}

	key, err := base64.StdEncoding.DecodeString(cfg.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes (got %d bytes)", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &EncryptionService{aead: aead}, nil
}

// TokenBinding names the credential a token belongs to
func TokenBinding(userID, provider string) string {
	return userID + "/" + provider
}

// EncryptToken seals token for the credential named by binding. An empty
// token, such as a provider that issued no refresh token, stays empty.
func (s *EncryptionService) EncryptToken(token, binding string) (string, error) {
	if token == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(token), []byte(binding))
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptToken opens a token sealed by EncryptToken for the same binding
func (s *EncryptionService) DecryptToken(stored, binding string) (string, error) {
	if stored == "" {
		return "", nil
	}

	encoded, ok := strings.CutPrefix(stored, sealedPrefix)
	if !ok {
		return "", fmt.Errorf("%w: unknown format", ErrUnreadableToken)
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableToken, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrUnreadableToken)
	}

	token, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], []byte(binding))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableToken, err)
	}
	return string(token), nil
}

// GenerateKey generates a new 32-byte encryption key and returns it as base64.
// Used by `gitaway keygen`.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
