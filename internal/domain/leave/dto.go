package leave

import (
	"strconv"
	"time"

	"github.com/crewconnect/employee-portal/internal/pkg/validator"
)

// MaxLeaveSpanDays bounds one request to a year of calendar days, inclusive.
const MaxLeaveSpanDays = 366

type CreateLeaveRequestRequest struct {
	UserID    string `json:"userID"`
	LeaveType string `json:"leaveType"`
	FromDate  string `json:"fromDate"`
	ToDate    string `json:"toDate"`
	Reason    string `json:"reason"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	// User ID
	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userID",
			Message: "userID is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userID",
			Message: "userID must be a valid id",
		})
	}

	// Leave type
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveType",
			Message: "leaveType is required",
		})
	} else if !LeaveType(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveType",
			Message: "leaveType must be one of Casual, Sick, Earned, Maternity, Paternity, Bereavement, Other",
		})
	}

	// Dates
	from, fromOK := r.dateField(&errs, "fromDate", r.FromDate)
	to, toOK := r.dateField(&errs, "toDate", r.ToDate)
	if fromOK && toOK {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "toDate",
				Message: ErrInvalidDateRange.Error(),
			})
		} else if to.After(from.AddDate(0, 0, MaxLeaveSpanDays-1)) {
			errs = append(errs, validator.ValidationError{
				Field:   "toDate",
				Message: ErrDateRangeTooLong.Error(),
			})
		}
	}

	// Reason
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *CreateLeaveRequestRequest) dateField(errs *validator.ValidationErrors, field, value string) (time.Time, bool) {
	if validator.IsEmpty(value) {
		*errs = append(*errs, validator.ValidationError{
			Field:   field,
			Message: field + " is required",
		})
		return time.Time{}, false
	}
	d, ok := validator.ParseCalendarDate(value)
	if !ok {
		*errs = append(*errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be a date in YYYY-MM-DD format",
		})
		return time.Time{}, false
	}
	return d, true
}

// Dates returns the parsed range. Call only after Validate succeeded.
func (r *CreateLeaveRequestRequest) Dates() (from, to time.Time) {
	from, _ = validator.ParseCalendarDate(r.FromDate)
	to, _ = validator.ParseCalendarDate(r.ToDate)
	return from, to
}

// ProcessActionRequest carries the query parameters of an emailed approval link.
type ProcessActionRequest struct {
	EmployeeID   string
	RequestIndex string
	Status       string
	Token        string
}

func (r *ProcessActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employeeId", Message: "employeeId is required"})
	}
	if validator.IsEmpty(r.RequestIndex) {
		errs = append(errs, validator.ValidationError{Field: "requestIndex", Message: "requestIndex is required"})
	} else if !validator.IsNumeric(r.RequestIndex) {
		errs = append(errs, validator.ValidationError{Field: "requestIndex", Message: "requestIndex must be a non-negative integer"})
	}
	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status is required"})
	} else if !LeaveRequestStatus(r.Status).IsResolution() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: ErrInvalidStatus.Error()})
	}
	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{Field: "token", Message: "token is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Index returns the parsed request index. Call only after Validate succeeded.
func (r *ProcessActionRequest) Index() int {
	i, err := strconv.Atoi(r.RequestIndex)
	if err != nil {
		return -1
	}
	return i
}

type LeaveRequestResponse struct {
	Index int `json:"index"`
	LeaveRequest
}

type EmployeeLeaveResponse struct {
	EmployeeID     string                 `json:"employeeId"`
	LeaveRequests  []LeaveRequestResponse `json:"leaveRequests"`
	AvailableLeave int                    `json:"availableLeave"`
	TotalLeave     int                    `json:"totalLeave"`
	LOP            int                    `json:"lop"`
}

// ProcessActionResult is the outcome of an approval link. AlreadyProcessed is
// set when the request had reached a terminal state before this call.
type ProcessActionResult struct {
	AlreadyProcessed bool
	Status           LeaveRequestStatus
	ProcessedAt      *time.Time
	Request          LeaveRequestResponse
}
