package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/devicegraph/pkg/adapters/memory"
	"github.com/aretw0/devicegraph/pkg/persistence/middleware"
	"github.com/aretw0/devicegraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, config middleware.EncryptionConfig, next ports.ArtifactStore) ports.ArtifactStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(config)
	require.NoError(t, err)
	return middleware.Wrap(next, mw)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, memory.NewStore())
	ports.RunArtifactStoreContract(t, store)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	store := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, underlying)

	model := []byte(`{"components":[{"name":"cpu","params":{"secret":"my-secret-sauce"}}]}`)
	require.NoError(t, store.Save(ctx, "sys0", model))

	raw, err := underlying.Load(ctx, "sys0")
	require.NoError(t, err)
	assert.False(t, bytes.Contains(raw, []byte("my-secret-sauce")), "stored bytes must be sealed")

	got, err := store.Load(ctx, "sys0")
	require.NoError(t, err)
	assert.Equal(t, model, got)
}

func TestEncryptionMiddleware_BindsName(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	store := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, underlying)

	require.NoError(t, store.Save(ctx, "sys0", []byte("rank zero")))
	raw, err := underlying.Load(ctx, "sys0")
	require.NoError(t, err)
	require.NoError(t, underlying.Save(ctx, "sys1", raw))

	_, err = store.Load(ctx, "sys1")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	require.NoError(t, encrypted(t, middleware.EncryptionConfig{ActiveKey: oldKey}, underlying).Save(ctx, "sys", []byte("v1")))

	rotated := encrypted(t, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}}, underlying)
	got, err := rotated.Load(ctx, "sys")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	_, err = encrypted(t, middleware.EncryptionConfig{ActiveKey: newKey}, underlying).Load(ctx, "sys")
	assert.Error(t, err, "without the old key the artifact stays sealed")
}

func TestEncryptionMiddleware_RejectsPlainArtifacts(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, "plain", []byte("{}")))

	_, err := encrypted(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)}, underlying).Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestNewEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.Error(t, err)
}
