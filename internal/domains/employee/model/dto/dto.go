package dto

import (
	"github.com/google/uuid"

	"github.com/JokoCodes/service-scheduler/internal/domains/employee/model"
	userModel "github.com/JokoCodes/service-scheduler/internal/domains/user/model"
	"github.com/JokoCodes/service-scheduler/shared"
	gDto "github.com/JokoCodes/service-scheduler/shared/dto"
	gModel "github.com/JokoCodes/service-scheduler/shared/model"
	"github.com/JokoCodes/service-scheduler/shared/timezone"
)

type ProvisionEmployeeRequest struct {
	AuthUserID string  `json:"auth_user_id" validate:"required,uuid"`
	FullName   string  `json:"full_name"    validate:"required,max=100"`
	Email      string  `json:"email"        validate:"required,email,max=100"`
	Phone      *string `json:"phone,omitempty"    validate:"omitempty,max=20"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=50"`
}

func (r *ProvisionEmployeeRequest) ToModel(username string) model.Employee {
	return model.Employee{
		ID:         model.EmployeeID(uuid.NewString()),
		AuthUserID: userModel.UserID(r.AuthUserID),
		FullName:   r.FullName,
		Email:      r.Email,
		Phone:      r.Phone,
		Position:   r.Position,
		Active:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateEmployeeRequest struct {
	FullName string  `db:"full_name" json:"full_name" validate:"omitempty,max=100"`
	Email    string  `db:"email"     json:"email"     validate:"omitempty,email,max=100"`
	Phone    *string `db:"phone"     json:"phone"     validate:"omitempty,max=20"`
	Position *string `db:"position"  json:"position"  validate:"omitempty,max=50"`
}

type EmployeeResponse struct {
	ID         string  `json:"id"`
	AuthUserID string  `json:"auth_user_id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	Position   *string `json:"position,omitempty"`
	Active     bool    `json:"active"`
	gDto.Metadata
}

func (r *EmployeeResponse) FromModel(model model.Employee) {
	r.ID = model.ID.String()
	r.AuthUserID = model.AuthUserID.String()
	r.FullName = model.FullName
	r.Email = model.Email
	r.Phone = model.Phone
	r.Position = model.Position
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetEmployeesResponse) FromModels(models []model.Employee, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Employees = make([]EmployeeResponse, len(models))
	for i, mod := range models {
		r.Employees[i].FromModel(mod)
	}
}
