package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/logging"
)

func cfg(level, format string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "resolver", Env: "testing"},
		Log: config.LogConfig{Level: level, Format: format},
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(cfg("debug", "json"), &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("id", "mailer").Debug("container: autowiring unregistered identifier")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "mailer", line["id"])
	assert.Equal(t, "resolver", line["app"])
	assert.Equal(t, "testing", line["env"])
	assert.Equal(t, "debug", line["level"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(cfg("warn", "text"), &buf)
	require.NoError(t, err)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "app=resolver")
}

func TestNew_ExplicitFieldsWin(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(cfg("info", "json"), &buf)
	require.NoError(t, err)

	log.WithField("app", "other").Info("x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "other", line["app"])
}

func TestNew_Invalid(t *testing.T) {
	_, err := logging.New(cfg("loud", "text"), nil)
	assert.ErrorContains(t, err, "LOG_LEVEL")

	_, err = logging.New(cfg("info", "xml"), nil)
	assert.ErrorContains(t, err, "LOG_FORMAT")
}
