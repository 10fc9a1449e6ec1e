package session

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrSealedCorrupt reports a stored value that fails to open.
var ErrSealedCorrupt = fmt.Errorf("sealed token is corrupt: %w", ErrUnreadableToken)

var hkdfInfoToken = []byte("telaviv.session.token.v1")

// SealedStore encrypts tokens with XChaCha20-Poly1305 before handing them
// to the wrapped store. The storage key is bound as additional data, so a
// value copied to another key does not open.
type SealedStore struct {
	inner TokenStore
	aead  cipher.AEAD
}

// NewSealedStore derives the sealing key from secret with HKDF-SHA256.
func NewSealedStore(inner TokenStore, secret string) (*SealedStore, error) {
	if secret == "" {
		return nil, errors.New("seal secret is empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, hkdfInfoToken), key); err != nil {
		return nil, fmt.Errorf("derive seal key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return &SealedStore{inner: inner, aead: aead}, nil
}

func (s *SealedStore) Load(ctx context.Context, key string) (string, error) {
	stored, err := s.inner.Load(ctx, key)
	if err != nil || stored == "" {
		return "", err
	}
	blob, err := base64.StdEncoding.DecodeString(stored)
	if err != nil || len(blob) < s.aead.NonceSize()+s.aead.Overhead() {
		return "", ErrSealedCorrupt
	}
	nonce, ciphertext := blob[:s.aead.NonceSize()], blob[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return "", ErrSealedCorrupt
	}
	return string(plain), nil
}

func (s *SealedStore) Save(ctx context.Context, key, token string) error {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(token)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	blob := s.aead.Seal(nonce, nonce, []byte(token), []byte(key))
	return s.inner.Save(ctx, key, base64.StdEncoding.EncodeToString(blob))
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
