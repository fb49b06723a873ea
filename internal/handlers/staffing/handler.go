package staffing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/JokoCodes/service-scheduler/infras/otel"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model/dto"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/service"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	"github.com/JokoCodes/service-scheduler/shared/validator"
	"github.com/JokoCodes/service-scheduler/transport/http/response"
)

type Handler struct {
	service service.Staffing
	otel    otel.Otel
}

func New(service service.Staffing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the booking-scoped staffing routes plus the employee-facing
// "my assignments" view.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings/{id}/staff", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.AssignStaff)
		routerGroup.Get("/", handler.GetAssignments)
		routerGroup.Get("/summary", handler.GetStaffingSummary)
		routerGroup.Put("/{assignmentId}", handler.TransitionAssignment)
		routerGroup.Delete("/{assignmentId}", handler.CancelAssignment)
	})

	router.Get("/employees/me/assignments", handler.GetMyAssignments)
}

// AssignStaff assigns an employee to a booking.
// @Summary Assign an employee to a booking
// @Description Assign an employee to a booking. Fails when the employee already holds an active assignment for the booking or the booking is at capacity.
// @Tags Staffing
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CreateAssignmentRequest true "Create Assignment Request"
// @Success 201 {object} response.Data[dto.AssignmentResponse] "Assignment created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/staff [post]
// @Security BearerAuth
func (handler *Handler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignStaff")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateAssignmentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Assign(ctx, bookingID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to assign staff")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Staff assigned successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAssignments lists the assignments of a booking.
// @Summary Get a booking's assignments
// @Description Retrieve all assignments of a booking with pagination.
// @Tags Staffing
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetAssignmentsResponse] "List of assignments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/staff [get]
// @Security BearerAuth
func (handler *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAssignments")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	assignments, err := handler.service.ListByBooking(ctx, bookingID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to get assignments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Assignments retrieved successfully")

	response.WithJSON(w, http.StatusOK, assignments)
}

// GetStaffingSummary reports a booking's staffing progress.
// @Summary Get a booking's staffing summary
// @Description Retrieve the assigned/accepted/completed counts and the staffing band of a booking.
// @Tags Staffing
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.StaffingSummaryResponse] "Staffing summary"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/staff/summary [get]
// @Security BearerAuth
func (handler *Handler) GetStaffingSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStaffingSummary")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	summary, err := handler.service.Progress(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to get staffing summary")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Staffing summary retrieved successfully")

	response.WithJSON(w, http.StatusOK, summary)
}

// TransitionAssignment moves an assignment through its lifecycle.
// @Summary Transition an assignment
// @Description Accept, decline, or complete an assignment. Employees may only act on their own assignments; admins may act on any.
// @Tags Staffing
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param assignmentId path string true "Assignment ID"
// @Param request body dto.TransitionAssignmentRequest true "Transition Assignment Request"
// @Success 200 {object} response.Data[dto.AssignmentResponse] "Assignment transitioned successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/staff/{assignmentId} [put]
// @Security BearerAuth
func (handler *Handler) TransitionAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TransitionAssignment")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)
	assignmentID := chi.URLParam(r, constant.RequestParamAssignmentID)

	req := dto.TransitionAssignmentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Transition(ctx, bookingID, assignmentID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("assignmentID", assignmentID).Msg("failed to transition assignment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Assignment transitioned to " + res.Status)

	response.WithJSON(w, http.StatusOK, res)
}

// CancelAssignment withdraws an assignment.
// @Summary Cancel an assignment
// @Description Cancel an assignment. Admin only. Cancelling an already-terminal assignment succeeds without changes.
// @Tags Staffing
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} response.Message "Assignment cancelled successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/staff/{assignmentId} [delete]
// @Security BearerAuth
func (handler *Handler) CancelAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelAssignment")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)
	assignmentID := chi.URLParam(r, constant.RequestParamAssignmentID)

	if err := handler.service.Cancel(ctx, bookingID, assignmentID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("assignmentID", assignmentID).Msg("failed to cancel assignment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Assignment cancelled successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Assignment cancelled successfully")
}

// GetMyAssignments lists the calling employee's own assignments.
// @Summary Get my assignments
// @Description Retrieve the authenticated employee's assignments with optional status filtering and pagination.
// @Tags Staffing
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (assigned, accepted, declined, completed, cancelled)"
// @Success 200 {object} response.Data[dto.GetAssignmentsResponse] "List of the caller's assignments"
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/employees/me/assignments [get]
// @Security BearerAuth
func (handler *Handler) GetMyAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyAssignments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)

	assignments, err := handler.service.ListMine(ctx, queryParams, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get my assignments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Assignments retrieved successfully")

	response.WithJSON(w, http.StatusOK, assignments)
}
