package dto

import (
	"github.com/google/uuid"

	employeeModel "github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	"github.com/JokoCodes/service-scheduler/internal/domains/staffing/model"
	"github.com/JokoCodes/service-scheduler/shared"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	gModel "github.com/JokoCodes/service-scheduler/shared/model"
	"github.com/JokoCodes/service-scheduler/shared/timezone"
)

type CreateAssignmentRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Role       string `json:"role"        validate:"required,max=50"`
	Notes      string `json:"notes"       validate:"omitempty"`
}

func (r *CreateAssignmentRequest) ToModel(bookingID, username string) model.Assignment {
	now := timezone.Now()

	return model.Assignment{
		ID:         uuid.NewString(),
		BookingID:  bookingID,
		EmployeeID: employeeModel.EmployeeID(r.EmployeeID),
		Role:       r.Role,
		Status:     model.StatusAssigned,
		AssignedAt: now,
		Notes:      r.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type TransitionAssignmentRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined completed"`
	Notes  string `json:"notes"  validate:"omitempty"`
}

type AssignmentResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	EmployeeID  string `json:"employee_id"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	AssignedAt  string `json:"assigned_at"`
	AcceptedAt  string `json:"accepted_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	Notes       string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *AssignmentResponse) FromModel(model model.Assignment) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.EmployeeID = model.EmployeeID.String()
	r.Role = model.Role
	r.Status = model.Status
	r.AssignedAt = timezone.Format(model.AssignedAt, constant.DateFormat)

	if model.AcceptedAt != nil {
		r.AcceptedAt = timezone.Format(*model.AcceptedAt, constant.DateFormat)
	}

	if model.CompletedAt != nil {
		r.CompletedAt = timezone.Format(*model.CompletedAt, constant.DateFormat)
	}

	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetAssignmentsResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetAssignmentsResponse) FromModels(models []model.Assignment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Assignments = make([]AssignmentResponse, len(models))
	for i, mod := range models {
		r.Assignments[i].FromModel(mod)
	}
}

type StaffingSummaryResponse struct {
	BookingID string `json:"booking_id"`
	Required  int    `json:"required"`
	Assigned  int    `json:"assigned"`
	Accepted  int    `json:"accepted"`
	Completed int    `json:"completed"`
	Band      string `json:"band"`
}

func (r *StaffingSummaryResponse) FromCounts(bookingID string, counts model.StaffingCounts) {
	r.BookingID = bookingID
	r.Required = counts.Required
	r.Assigned = counts.Assigned
	r.Accepted = counts.Accepted
	r.Completed = counts.Completed
	r.Band = counts.Band()
}
