package handler

import (
	"net/http"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/di"
	"github.com/JokoCodes/service-scheduler/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeService()
	service.Handler().ServeHTTP(w, r)
}
