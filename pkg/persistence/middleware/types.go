// Package middleware wraps artifact stores with extra behavior, such as
// encrypting artifacts before they reach a shared backend.
package middleware

import "github.com/aretw0/devicegraph/pkg/ports"

// Middleware allows wrapping an ArtifactStore to add behavior.
type Middleware func(ports.ArtifactStore) ports.ArtifactStore

// Wrap applies mws to store; the first middleware is the outermost.
func Wrap(store ports.ArtifactStore, mws ...Middleware) ports.ArtifactStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
