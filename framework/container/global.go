package container

import "sync/atomic"

var globalContainer atomic.Pointer[Container]

// Global returns the process-wide container, creating it on first use. The
// same instance is returned until SetGlobal replaces it; there is no teardown.
//
//	c := container.Global()
func Global() *Container {
	if c := globalContainer.Load(); c != nil {
		return c
	}
	globalContainer.CompareAndSwap(nil, New())
	return globalContainer.Load()
}

// SetGlobal installs c as the process-wide container and returns a func that
// puts the previous one back. Intended for tests and application bootstrap.
func SetGlobal(c *Container) (restore func()) {
	prev := globalContainer.Swap(c)
	return func() { globalContainer.Store(prev) }
}
