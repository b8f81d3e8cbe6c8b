package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/console"
	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/container"
)

func run(t *testing.T, setup func(*app.Application) error, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"CONTAINER_AUTOWIRING", "CONTAINER_MAX_DEPTH", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	cli := console.New()
	cli.Setup = setup

	var out, errOut bytes.Buffer
	cli.Root().SetOut(&out)
	cli.Root().SetErr(&errOut)
	cli.Root().SetArgs(append([]string{"--env-file", "testdata/cli.env"}, args...))

	err := cli.Exec(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Equal(t, app.Version+"\n", out)
}

func TestEntries(t *testing.T) {
	out, err := run(t, func(a *app.Application) error {
		a.Set("greeting", "hello")
		a.Set("clock", container.TimeKey)
		return nil
	}, "entries")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "type       clock")
	assert.Contains(t, lines, "value      greeting")
	assert.Contains(t, lines, "function   router")
}

func TestResolve_NotFoundWithoutAutowiring(t *testing.T) {
	_, err := run(t, nil, "resolve", container.TimeKey)
	assert.ErrorIs(t, err, container.ErrNotFound)
}

func TestResolve_Autowire(t *testing.T) {
	out, err := run(t, nil, "resolve", container.TimeKey, "--autowire",
		"-p", "$datetime=1992-10-27 10:15:00")
	require.NoError(t, err)

	want, _ := time.ParseInLocation("2006-01-02 15:04:05", "1992-10-27 10:15:00", time.Local)
	assert.Equal(t, want.String(), strings.TrimSpace(out))
}

func TestResolve_PositionalOverride(t *testing.T) {
	out, err := run(t, func(a *app.Application) error {
		a.Set("birthday", container.TimeKey)
		return nil
	}, "resolve", "birthday", "--make", "-p", "0=1992-10-27")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1992-10-27 00:00:00"), out)
}

func TestResolve_ParamValueKeptVerbatim(t *testing.T) {
	out, err := run(t, func(a *app.Application) error {
		a.Set("echo", container.Fn(func(s string) string { return s }, container.Arg("list")))
		return nil
	}, "resolve", "echo", "-p", "list=a,b=c")
	require.NoError(t, err)
	assert.Equal(t, "a,b=c\n", out)
}

func TestResolve_MalformedParam(t *testing.T) {
	_, err := run(t, func(a *app.Application) error {
		a.Set("echo", container.Fn(func(s string) string { return s }, container.Arg("list")))
		return nil
	}, "resolve", "echo", "-p", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want name=value")
}

func TestResolve_Value(t *testing.T) {
	out, err := run(t, func(a *app.Application) error {
		a.Set("greeting", "hello")
		a.Set("answer", func() int { return 42 })
		return nil
	}, "resolve", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestResolve_RequiresID(t *testing.T) {
	_, err := run(t, nil, "resolve")
	assert.Error(t, err)
}

func TestSetupErrorStops(t *testing.T) {
	_, err := run(t, func(*app.Application) error { return assert.AnError }, "entries")
	assert.ErrorIs(t, err, assert.AnError)
}
