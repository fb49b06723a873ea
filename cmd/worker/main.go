package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/di"
	"github.com/JokoCodes/service-scheduler/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relay := di.InitializeRelay()
	relay.Run(ctx)
}
