package container_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/container"
)

type mailer struct{ host string }

func newMailer(host string) *mailer { return &mailer{host: host} }

type notifier interface{ Notify(string) error }

func TestCatalog_BuiltinsPresent(t *testing.T) {
	cat := container.NewCatalog()

	cl, ok := cat.Lookup(container.TimeKey)
	require.True(t, ok)
	assert.True(t, cl.Instantiable())
	assert.Contains(t, cat.Names(), container.TimeKey)
}

func TestCatalog_DefineFromSamples(t *testing.T) {
	cat := container.NewCatalog()
	want := container.TypeOf[mailer]()

	assert.Equal(t, want, cat.Define((*mailer)(nil)))
	assert.Equal(t, want, cat.Define(mailer{}))
	assert.Equal(t, want, cat.Define(reflect.TypeOf(&mailer{})))

	cl, ok := cat.LookupType(reflect.TypeOf(&mailer{}))
	require.True(t, ok)
	assert.Equal(t, want, cl.Name())
	assert.Equal(t, reflect.TypeOf(mailer{}), cl.Type())
}

func TestCatalog_Interfaces(t *testing.T) {
	cat := container.NewCatalog()

	id := cat.Define((*notifier)(nil))
	cl, _ := cat.Lookup(id)
	assert.False(t, cl.Instantiable())

	cat.Define((*notifier)(nil), container.Constructor(func() notifier { return nil }))
	cl, _ = cat.Lookup(id)
	assert.True(t, cl.Instantiable())
}

func TestCatalog_NamedAndAbstract(t *testing.T) {
	cat := container.NewCatalog()

	id := cat.Define((*mailer)(nil), container.Named("mail"), container.Abstract())
	assert.Equal(t, "mail", id)

	cl, ok := cat.Lookup("mail")
	require.True(t, ok)
	assert.False(t, cl.Instantiable())
}

func TestCatalog_DefinePanics(t *testing.T) {
	cat := container.NewCatalog()

	assert.Panics(t, func() { cat.Define(nil) })
	assert.Panics(t, func() { cat.Define([]int{}) }, "unnamed types need Named")
	assert.Panics(t, func() {
		cat.Define((*mailer)(nil), container.Constructor(func(...string) *mailer { return nil }))
	})
	assert.Panics(t, func() {
		cat.Define((*mailer)(nil), container.Constructor(func() {}))
	})
	assert.Panics(t, func() {
		cat.Define((*mailer)(nil), container.Constructor(newMailer, container.Arg("host"), container.Arg("port")))
	})
	assert.Panics(t, func() { container.Fn("not a func") })
}

func TestCatalog_SharedBetweenContainers(t *testing.T) {
	cat := container.NewCatalog()
	id := cat.Define((*mailer)(nil),
		container.Constructor(newMailer, container.Arg("host", container.Default("localhost"))))

	a := container.New(container.WithCatalog(cat))
	b := container.New(container.WithCatalog(cat))
	assert.Same(t, a.Types(), b.Types())

	got, err := b.Call(id, container.Params{"host": "smtp.local"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.local", got.(*mailer).host)

	got, err = a.Call(id, nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost", got.(*mailer).host)
}

func TestTypeKey(t *testing.T) {
	assert.Equal(t, container.TypeOf[mailer](), container.TypeKey((*mailer)(nil)))
	assert.Equal(t, container.TypeOf[mailer](), container.TypeKey(mailer{}))
	assert.Equal(t, container.SelfKey, container.TypeKey(container.New()))
}
