package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/crewconnect/employee-portal/internal/pkg/approval"
	"github.com/crewconnect/employee-portal/internal/pkg/locker"
	"github.com/crewconnect/employee-portal/internal/pkg/validator"
	"github.com/google/uuid"
)

const maxUpdateAttempts = 3

type LeaveServiceImpl struct {
	employee.EmployeeRepository
	locker   locker.Locker
	tokens   approval.Service
	notifier *Notifier
	now      func() time.Time
}

type Option func(*LeaveServiceImpl)

func WithClock(now func() time.Time) Option {
	return func(s *LeaveServiceImpl) {
		s.now = now
	}
}

func NewLeaveService(
	employeeRepository employee.EmployeeRepository,
	lk locker.Locker,
	tokens approval.Service,
	notifier *Notifier,
	opts ...Option,
) leave.LeaveService {
	s := &LeaveServiceImpl{
		EmployeeRepository: employeeRepository,
		locker:             lk,
		tokens:             tokens,
		notifier:           notifier,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	from, to := req.Dates()
	requestedDays := CountWeekdays(from, to)

	var (
		created leave.LeaveRequest
		index   int
	)
	emp, err := s.mutate(ctx, req.UserID, func(emp *employee.Employee) (bool, error) {
		id, err := uuid.NewV7()
		if err != nil {
			return false, err
		}
		completed, lop := emp.ChargeLeave(requestedDays)

		created = leave.LeaveRequest{
			ID:             id.String(),
			LeaveType:      leave.LeaveType(req.LeaveType),
			FromDate:       from.Format(leave.DateLayout),
			ToDate:         to.Format(leave.DateLayout),
			Reason:         req.Reason,
			RequestedDays:  requestedDays,
			CompletedLeave: completed,
			LOP:            lop,
			Status:         leave.LeaveRequestStatusPending,
			CreatedAt:      s.now().UTC(),
		}
		index = emp.AppendLeaveRequest(created)
		return true, nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request submitted",
		"employee_id", emp.ID,
		"request_index", index,
		"requested_days", created.RequestedDays,
		"completed_leave", created.CompletedLeave,
		"lop", created.LOP,
	)

	s.notifySubmitted(emp, index, created)

	return leave.LeaveRequestResponse{Index: index, LeaveRequest: created}, nil
}

func (s *LeaveServiceImpl) notifySubmitted(emp employee.Employee, index int, req leave.LeaveRequest) {
	approveToken, expiresAt, err := s.tokens.Generate(emp.ID, index, req.ID, string(leave.LeaveRequestStatusApproved))
	if err != nil {
		slog.Error("Failed to generate approval token", "employee_id", emp.ID, "request_index", index, "error", err)
		return
	}
	rejectToken, _, err := s.tokens.Generate(emp.ID, index, req.ID, string(leave.LeaveRequestStatusRejected))
	if err != nil {
		slog.Error("Failed to generate approval token", "employee_id", emp.ID, "request_index", index, "error", err)
		return
	}

	s.notifier.LeaveSubmitted(emp, index, req, ActionTokens{
		Approve:   approveToken,
		Reject:    rejectToken,
		ExpiresAt: expiresAt,
	})
}

// ProcessAction implements leave.LeaveService.
func (s *LeaveServiceImpl) ProcessAction(ctx context.Context, req leave.ProcessActionRequest) (leave.ProcessActionResult, error) {
	if err := req.Validate(); err != nil {
		return leave.ProcessActionResult{}, err
	}

	claims, err := s.tokens.Verify(req.Token)
	if err != nil {
		if errors.Is(err, approval.ErrTokenExpired) {
			return leave.ProcessActionResult{}, leave.ErrTokenExpired
		}
		slog.Warn("Rejected approval token", "employee_id", req.EmployeeID, "error", err)
		return leave.ProcessActionResult{}, leave.ErrTokenInvalid
	}

	index := req.Index()
	status := leave.LeaveRequestStatus(req.Status)
	if claims.EmployeeID != req.EmployeeID || claims.RequestIndex != index || claims.Action != req.Status {
		return leave.ProcessActionResult{}, leave.ErrTokenMismatch
	}

	var result leave.ProcessActionResult
	emp, err := s.mutate(ctx, req.EmployeeID, func(emp *employee.Employee) (bool, error) {
		lr, ok := emp.LeaveRequestAt(index)
		if !ok {
			return false, leave.ErrLeaveRequestNotFound
		}
		if lr.ID != claims.RequestID {
			return false, leave.ErrTokenMismatch
		}

		if lr.Status.IsTerminal() {
			result = leave.ProcessActionResult{
				AlreadyProcessed: true,
				Status:           lr.Status,
				ProcessedAt:      lr.ProcessedAt,
				Request:          leave.LeaveRequestResponse{Index: index, LeaveRequest: *lr},
			}
			return false, nil
		}

		if err := lr.Resolve(status, s.now().UTC()); err != nil {
			return false, err
		}
		if status == leave.LeaveRequestStatusRejected {
			emp.RestoreLeave(*lr)
		}

		result = leave.ProcessActionResult{
			Status:      lr.Status,
			ProcessedAt: lr.ProcessedAt,
			Request:     leave.LeaveRequestResponse{Index: index, LeaveRequest: *lr},
		}
		return true, nil
	})
	if err != nil {
		return leave.ProcessActionResult{}, err
	}

	if result.AlreadyProcessed {
		slog.Info("Leave request already processed", "employee_id", emp.ID, "request_index", index, "status", result.Status)
		return result, nil
	}

	slog.Info("Leave request processed",
		"employee_id", emp.ID,
		"request_index", index,
		"status", result.Status,
		"available_leave", emp.AvailableLeave,
		"lop", emp.LOP,
	)
	s.notifier.LeaveResolved(emp, result.Request.LeaveRequest)

	return result, nil
}

// ListEmployeeLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListEmployeeLeaveRequests(ctx context.Context, employeeID string) (leave.EmployeeLeaveResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return leave.EmployeeLeaveResponse{}, validator.ValidationErrors{{
			Field:   "employeeId",
			Message: "Invalid employee ID format",
		}}
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return leave.EmployeeLeaveResponse{}, err
	}

	requests := make([]leave.LeaveRequestResponse, 0, len(emp.LeaveRequests))
	for i, lr := range emp.LeaveRequests {
		requests = append(requests, leave.LeaveRequestResponse{Index: i, LeaveRequest: lr})
	}

	return leave.EmployeeLeaveResponse{
		EmployeeID:     emp.ID,
		LeaveRequests:  requests,
		AvailableLeave: emp.AvailableLeave,
		TotalLeave:     emp.TotalLeave,
		LOP:            emp.LOP,
	}, nil
}

// mutate runs fn against a fresh copy of the employee while holding the
// employee's lock and saves the result when fn reports a change. A version
// conflict, which only happens when another instance bypassed the lock or the
// lock expired, is retried on a re-read document.
func (s *LeaveServiceImpl) mutate(ctx context.Context, employeeID string, fn func(emp *employee.Employee) (bool, error)) (employee.Employee, error) {
	unlock, err := s.locker.Lock(ctx, "employee:"+employeeID)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to lock employee %s: %w", employeeID, err)
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
		if err != nil {
			return employee.Employee{}, err
		}

		changed, err := fn(&emp)
		if err != nil {
			return employee.Employee{}, err
		}
		if !changed {
			return emp, nil
		}

		updated, err := s.EmployeeRepository.Update(ctx, emp)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, employee.ErrVersionConflict) || attempt == maxUpdateAttempts {
			return employee.Employee{}, err
		}
		slog.Warn("Employee modified concurrently, retrying", "employee_id", employeeID, "attempt", attempt)
	}
}
