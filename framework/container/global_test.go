package container_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-injector/framework/container"
)

func TestGlobal_ReturnsSameInstance(t *testing.T) {
	restore := container.SetGlobal(nil)
	defer restore()

	var wg sync.WaitGroup
	got := make([]*container.Container, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = container.Global()
		}(i)
	}
	wg.Wait()

	for _, c := range got {
		assert.Same(t, got[0], c)
	}
	assert.Same(t, got[0], container.Global())
}

func TestSetGlobal_Restore(t *testing.T) {
	original := container.Global()
	replacement := container.New()

	restore := container.SetGlobal(replacement)
	assert.Same(t, replacement, container.Global())

	restore()
	assert.Same(t, original, container.Global())
}

func TestGlobal_KeepsState(t *testing.T) {
	restore := container.SetGlobal(container.New())
	defer restore()

	container.Global().Set("shared", "value")
	assert.True(t, container.Global().Has("shared"))
}
