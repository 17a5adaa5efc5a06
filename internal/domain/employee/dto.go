package employee

import (
	"strings"
	"time"

	"github.com/crewconnect/employee-portal/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	TotalLeave *int   `json:"totalLeave,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.TotalLeave != nil && *r.TotalLeave < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "totalLeave",
			Message: "totalLeave must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	TotalLeave     int       `json:"totalLeave"`
	AvailableLeave int       `json:"availableLeave"`
	LOP            int       `json:"lop"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewEmployeeResponse(emp Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             emp.ID,
		Username:       emp.Username,
		Email:          emp.Email,
		TotalLeave:     emp.TotalLeave,
		AvailableLeave: emp.AvailableLeave,
		LOP:            emp.LOP,
		CreatedAt:      emp.CreatedAt,
	}
}
