package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-injector/console"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := console.New().Exec(ctx); err != nil {
		logrus.WithError(err).Error("go-injector failed")
		stop()
		os.Exit(1)
	}
}
