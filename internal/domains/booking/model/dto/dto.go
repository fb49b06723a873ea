package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/JokoCodes/service-scheduler/internal/domains/booking/model"
	"github.com/JokoCodes/service-scheduler/shared"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	gModel "github.com/JokoCodes/service-scheduler/shared/model"
	"github.com/JokoCodes/service-scheduler/shared/timezone"
)

type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name"  validate:"required,max=100"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email,max=100"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,max=20"`
	Address       string `json:"address"        validate:"required,max=255"`
	ServiceType   string `json:"service_type"   validate:"required,max=50"`
	ScheduledDate string `json:"scheduled_date" validate:"required"`
	StartTime     string `json:"start_time"     validate:"required"`
	EndTime       string `json:"end_time"       validate:"required"`
	StaffRequired int    `json:"staff_required" validate:"required,min=1"`
	Notes         string `json:"notes"          validate:"omitempty"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	scheduledDate, err := time.Parse(constant.DateOnly, c.ScheduledDate)
	if err != nil {
		return model.Booking{}, err
	}

	startTime, err := time.Parse(constant.TimeOnly, c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	endTime, err := time.Parse(constant.TimeOnly, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:            uuid.NewString(),
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,
		Address:       c.Address,
		ServiceType:   c.ServiceType,
		ScheduledDate: scheduledDate,
		StartTime:     startTime,
		EndTime:       endTime,
		StaffRequired: c.StaffRequired,
		Status:        model.StatusPending,
		Notes:         c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateBookingRequest struct {
	CustomerName  string `db:"customer_name"  json:"customer_name"  validate:"omitempty,max=100"`
	CustomerEmail string `db:"customer_email" json:"customer_email" validate:"omitempty,email,max=100"`
	CustomerPhone string `db:"customer_phone" json:"customer_phone" validate:"omitempty,max=20"`
	Address       string `db:"address"        json:"address"        validate:"omitempty,max=255"`
	ServiceType   string `db:"service_type"   json:"service_type"   validate:"omitempty,max=50"`
	ScheduledDate string `json:"scheduled_date" validate:"omitempty"`
	StartTime     string `json:"start_time"     validate:"omitempty"`
	EndTime       string `json:"end_time"       validate:"omitempty"`
	StaffRequired int    `db:"staff_required" json:"staff_required" validate:"omitempty,min=1"`
	Status        string `db:"status"         json:"status"         validate:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	Notes         string `db:"notes"          json:"notes"          validate:"omitempty"`
}

// ToFields converts the set fields into update columns. The schedule fields
// carry no db tag because they need parsing before they can be written, so
// they are set explicitly here instead of through TransformFields.
func (u *UpdateBookingRequest) ToFields(user string) (map[string]any, error) {
	fields := shared.TransformFields(*u, user)

	if u.ScheduledDate != "" {
		scheduledDate, err := time.Parse(constant.DateOnly, u.ScheduledDate)
		if err != nil {
			return nil, err
		}

		fields[model.FieldScheduledDate] = scheduledDate
	}

	if u.StartTime != "" {
		startTime, err := time.Parse(constant.TimeOnly, u.StartTime)
		if err != nil {
			return nil, err
		}

		fields[model.FieldStartTime] = startTime
	}

	if u.EndTime != "" {
		endTime, err := time.Parse(constant.TimeOnly, u.EndTime)
		if err != nil {
			return nil, err
		}

		fields[model.FieldEndTime] = endTime
	}

	return fields, nil
}

type BookingResponse struct {
	ID             string `json:"id"`
	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	CustomerPhone  string `json:"customer_phone"`
	Address        string `json:"address"`
	ServiceType    string `json:"service_type"`
	ScheduledDate  string `json:"scheduled_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	StaffRequired  int    `json:"staff_required"`
	StaffFulfilled int    `json:"staff_fulfilled"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.CustomerName = model.CustomerName
	r.CustomerEmail = model.CustomerEmail
	r.CustomerPhone = model.CustomerPhone
	r.Address = model.Address
	r.ServiceType = model.ServiceType
	r.ScheduledDate = model.ScheduledDate.Format(constant.DateOnly)
	r.StartTime = model.StartTime.Format(constant.TimeOnly)
	r.EndTime = model.EndTime.Format(constant.TimeOnly)
	r.StaffRequired = model.StaffRequired
	r.StaffFulfilled = model.StaffFulfilled
	r.Status = model.Status
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
