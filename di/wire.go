//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/JokoCodes/service-scheduler/config"
	"github.com/JokoCodes/service-scheduler/infras/jwt"
	"github.com/JokoCodes/service-scheduler/infras/kafka"
	"github.com/JokoCodes/service-scheduler/infras/otel"
	"github.com/JokoCodes/service-scheduler/infras/postgres"
	"github.com/JokoCodes/service-scheduler/infras/redis"
	"github.com/JokoCodes/service-scheduler/permissions"
	"github.com/JokoCodes/service-scheduler/shared/cache"
	"github.com/JokoCodes/service-scheduler/transport/http"
	"github.com/JokoCodes/service-scheduler/transport/http/middleware"
	"github.com/JokoCodes/service-scheduler/transport/http/router"

	authService "github.com/JokoCodes/service-scheduler/internal/domains/auth/service"
	bookingRepository "github.com/JokoCodes/service-scheduler/internal/domains/booking/repository"
	bookingService "github.com/JokoCodes/service-scheduler/internal/domains/booking/service"
	employeeRepository "github.com/JokoCodes/service-scheduler/internal/domains/employee/repository"
	employeeService "github.com/JokoCodes/service-scheduler/internal/domains/employee/service"
	notificationRepository "github.com/JokoCodes/service-scheduler/internal/domains/notification/repository"
	notificationService "github.com/JokoCodes/service-scheduler/internal/domains/notification/service"
	staffingRepository "github.com/JokoCodes/service-scheduler/internal/domains/staffing/repository"
	staffingService "github.com/JokoCodes/service-scheduler/internal/domains/staffing/service"
	userRepository "github.com/JokoCodes/service-scheduler/internal/domains/user/repository"

	authHandler "github.com/JokoCodes/service-scheduler/internal/handlers/auth"
	bookingHandler "github.com/JokoCodes/service-scheduler/internal/handlers/booking"
	employeeHandler "github.com/JokoCodes/service-scheduler/internal/handlers/employee"
	staffingHandler "github.com/JokoCodes/service-scheduler/internal/handlers/staffing"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var employeeDomain = wire.NewSet(
	employeeRepository.New,
	employeeService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

// The staffing store appends outbox rows transactionally, so it depends on
// the notification repository even though the relay runs in its own binary.
var staffingDomain = wire.NewSet(
	notificationRepository.New,
	staffingRepository.New,
	staffingService.New,
)

var domains = wire.NewSet(
	authDomain,
	employeeDomain,
	bookingDomain,
	staffingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	employeeHandler.New,
	staffingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeRelay() notificationService.Notification {
	wire.Build(
		configurations,
		wire.NewSet(
			postgres.New,
			otel.New,
			kafka.New,
		),
		notificationDomain,
	)

	return nil
}
