package providers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/providers"
	"github.com/km-arc/go-injector/routing"
)

func registry(t *testing.T, ps ...container.ServiceProvider) (*container.Container, *container.ProviderRegistry) {
	t.Helper()
	log, _ := test.NewNullLogger()
	c := container.New(container.WithLogger(log))
	reg := container.NewProviderRegistry(c)
	for _, p := range ps {
		require.NoError(t, reg.Register(p))
	}
	require.NoError(t, reg.Boot())
	return c, reg
}

func TestConfigServiceProvider_Preloaded(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "preloaded"}}
	c, _ := registry(t, &providers.ConfigServiceProvider{Config: cfg})

	got, err := container.ResolveAs[*config.Config](c, providers.ConfigKey, nil)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestConfigServiceProvider_LoadsLazily(t *testing.T) {
	t.Setenv("APP_NAME", "from-env")
	c, _ := registry(t, &providers.ConfigServiceProvider{EnvFiles: []string{"testdata/none.env"}})

	first, err := container.ResolveAs[*config.Config](c, providers.ConfigKey, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", first.App.Name)

	second, err := container.ResolveAs[*config.Config](c, providers.ConfigKey, nil)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoggingServiceProvider(t *testing.T) {
	log, _ := test.NewNullLogger()
	c, _ := registry(t, &providers.LoggingServiceProvider{Logger: log})

	got, err := c.Resolve(providers.LogKey, nil)
	require.NoError(t, err)
	assert.Same(t, log, got)

	c, _ = registry(t, &providers.LoggingServiceProvider{})
	got, err = c.Resolve(providers.LogKey, nil)
	require.NoError(t, err)
	assert.Same(t, logrus.StandardLogger(), got)
}

func TestRoutingServiceProvider_NeedsLogger(t *testing.T) {
	c, _ := registry(t, &providers.RoutingServiceProvider{})

	_, err := c.Resolve(providers.RouterKey, nil)

	var nf *container.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, providers.LogKey, nf.ID)
}

func TestRoutingServiceProvider_BuildsRouterFromLog(t *testing.T) {
	log, hook := test.NewNullLogger()
	c, _ := registry(t,
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{})

	r, err := container.ResolveAs[*routing.Router](c, providers.RouterKey, nil)
	require.NoError(t, err)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotNil(t, hook.LastEntry(), "the router logs through the registered logger")
	assert.Equal(t, "/ping", hook.LastEntry().Data["path"])
}

func TestInspectServiceProvider_Deferred(t *testing.T) {
	log, _ := test.NewNullLogger()
	c, reg := registry(t,
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{},
		&providers.InspectServiceProvider{Prefix: "/debug"})

	assert.Equal(t, []string{providers.InspectKey}, reg.Pending())

	r, err := container.ResolveAs[*routing.Router](c, providers.InspectKey, nil)
	require.NoError(t, err)
	assert.Empty(t, reg.Pending())

	router, err := container.ResolveAs[*routing.Router](c, providers.RouterKey, nil)
	require.NoError(t, err)
	assert.Same(t, router, r, "endpoints are mounted on the shared router")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/entries", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
