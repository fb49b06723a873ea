package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/JokoCodes/service-scheduler/internal/handlers/auth"
	"github.com/JokoCodes/service-scheduler/internal/handlers/booking"
	"github.com/JokoCodes/service-scheduler/internal/handlers/employee"
	"github.com/JokoCodes/service-scheduler/internal/handlers/staffing"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Booking  booking.Handler
	Employee employee.Handler
	Staffing staffing.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Employee.Router(routerGroup)
		r.DomainHandlers.Staffing.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
