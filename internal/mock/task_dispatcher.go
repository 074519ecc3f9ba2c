package mock

import "context"

// Dispatcher implements port.AssetCleanupDispatcher for tests.
type Dispatcher struct {
	CleanupCalled bool
	CleanupPaths  [][]string
	// CleanupCtxErr is the state of the context the last cleanup was scheduled on.
	CleanupCtxErr error
	CleanupErr    error
}

func (m *Dispatcher) EnqueueAssetCleanup(ctx context.Context, paths []string) error {
	m.CleanupCalled = true
	m.CleanupPaths = append(m.CleanupPaths, paths)
	m.CleanupCtxErr = ctx.Err()
	return m.CleanupErr
}
