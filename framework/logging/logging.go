// Package logging builds the logrus logger shared by the container, the router
// and the CLI.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-injector/framework/config"
)

// New returns a logger writing to out (stderr when nil) at cfg.Log.Level, in
// text or JSON. Every entry carries the application name and environment.
func New(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "LOG_LEVEL")
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	switch cfg.Log.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, errors.Errorf("LOG_FORMAT: unknown format %q (want text or json)", cfg.Log.Format)
	}
	log.AddHook(NewAppHook(cfg.App))
	return log, nil
}

// appHook stamps app and env onto every entry.
type appHook struct {
	app config.AppConfig
}

func NewAppHook(app config.AppConfig) logrus.Hook {
	return appHook{app: app}
}

func (h appHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h appHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["app"]; !ok {
		entry.Data["app"] = h.app.Name
	}
	if _, ok := entry.Data["env"]; !ok {
		entry.Data["env"] = h.app.Env
	}
	return nil
}
