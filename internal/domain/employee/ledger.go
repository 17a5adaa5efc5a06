package employee

import "github.com/crewconnect/employee-portal/internal/domain/leave"

// ChargeLeave deducts requestedDays from the available balance. Days beyond
// the balance are booked as loss of pay. AvailableLeave never goes negative.
func (e *Employee) ChargeLeave(requestedDays int) (completed, lop int) {
	if requestedDays < 0 {
		requestedDays = 0
	}
	available := e.AvailableLeave
	if available < 0 {
		available = 0
	}

	completed = min(requestedDays, available)
	lop = requestedDays - completed

	e.AvailableLeave = available - completed
	e.LOP += lop
	return completed, lop
}

// RestoreLeave reverses exactly what ChargeLeave booked for req.
func (e *Employee) RestoreLeave(req leave.LeaveRequest) {
	e.AvailableLeave += req.CompletedLeave
	e.LOP -= req.LOP
	if e.LOP < 0 {
		e.LOP = 0
	}
}
