package main

import (
	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/di"
	"github.com/JokoCodes/service-scheduler/shared/logger"
)

// @title Service Scheduler API
// @version 1.0
// @description Booking and staffing API for field service teams.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
