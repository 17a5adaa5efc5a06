package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrInvalidStatus                = errors.New("status must be Approved or Rejected")
	ErrInvalidDateRange             = errors.New("toDate must not be before fromDate")
	ErrDateRangeTooLong             = errors.New("leave range must not exceed 366 days")

	ErrTokenInvalid  = errors.New("Invalid token")
	ErrTokenExpired  = errors.New("Token expired")
	ErrTokenMismatch = errors.New("Token does not match request")
)
