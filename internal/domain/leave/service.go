package leave

import (
	"context"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ProcessAction(ctx context.Context, req ProcessActionRequest) (ProcessActionResult, error)
	ListEmployeeLeaveRequests(ctx context.Context, employeeID string) (EmployeeLeaveResponse, error)
}
