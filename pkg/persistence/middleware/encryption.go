package middleware

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/devicegraph/pkg/ports"
)

// envelopeMagic prefixes every encrypted artifact.
var envelopeMagic = []byte("DGENC1\x00")

// ErrNotEncrypted is returned when loading an artifact that was stored
// without encryption.
var ErrNotEncrypted = errors.New("artifact is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables key rotation without rewriting stored artifacts.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.ArtifactStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals artifacts with
// AES-GCM. The artifact name is authenticated along with the data, so an
// artifact copied under another name fails to open.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(config.ActiveKey))
	}
	for i, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key %d must be 32 bytes (AES-256), got %d", i, len(k))
		}
	}
	return func(next ports.ArtifactStore) ports.ArtifactStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, name string, data []byte) error {
	sealed, err := encrypt(data, m.config.ActiveKey, []byte(name))
	if err != nil {
		return fmt.Errorf("failed to encrypt artifact: %w", err)
	}
	envelope := make([]byte, 0, len(envelopeMagic)+len(sealed))
	envelope = append(envelope, envelopeMagic...)
	envelope = append(envelope, sealed...)
	return m.next.Save(ctx, name, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, name string) ([]byte, error) {
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	sealed, ok := bytes.CutPrefix(envelope, envelopeMagic)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEncrypted, name)
	}

	keys := append([][]byte{m.config.ActiveKey}, m.config.FallbackKeys...)
	for _, key := range keys {
		if plain, err := decrypt(sealed, key, []byte(name)); err == nil {
			return plain, nil
		}
	}
	return nil, fmt.Errorf("failed to decrypt artifact %s: no key opens it", name)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plaintext, key, ad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, ad), nil
}

func decrypt(sealed, key, ad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, ad)
}
