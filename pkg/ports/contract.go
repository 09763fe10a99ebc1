package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/devicegraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunArtifactStoreContract runs a suite of tests to verify that an ArtifactStore
// implementation adheres to the interface contract.
func RunArtifactStoreContract(t *testing.T, store ArtifactStore) {
	ctx := context.Background()
	name := "contract-test-artifact-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		data := []byte(`{"components":[]}`)

		err := store.Save(ctx, name, data)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, data, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, []byte("first")))
		require.NoError(t, store.Save(ctx, name, []byte("second")))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run("Isolation", func(t *testing.T) {
		data := []byte("abc")
		require.NoError(t, store.Save(ctx, name, data))
		data[0] = 'x'

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), loaded, "stored bytes must not alias the caller's slice")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, []byte("x")))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound, "Load after Delete should return ErrArtifactNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id0 := name + "0"
		id1 := name + "1"
		require.NoError(t, store.Save(ctx, id0, []byte("rank0")))
		require.NoError(t, store.Save(ctx, id1, []byte("rank1")))

		defer func() {
			_ = store.Delete(ctx, id0)
			_ = store.Delete(ctx, id1)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id0)
		assert.Contains(t, names, id1)
	})
}
