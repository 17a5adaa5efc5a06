package employee

import (
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/leave"
)

const DefaultTotalLeave = 25

// Employee is the aggregate that owns the leave ledger. Every mutation of the
// ledger or of LeaveRequests is persisted as one document write guarded by
// Version.
type Employee struct {
	ID       string `json:"id" bson:"_id"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`

	TotalLeave     int                  `json:"totalLeave" bson:"totalLeave"`
	AvailableLeave int                  `json:"availableLeave" bson:"availableLeave"`
	LOP            int                  `json:"LOP" bson:"LOP"`
	LeaveRequests  []leave.LeaveRequest `json:"leaveRequests" bson:"leaveRequests"`

	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// LeaveRequestAt returns a pointer into LeaveRequests so callers can resolve
// the request in place.
func (e *Employee) LeaveRequestAt(index int) (*leave.LeaveRequest, bool) {
	if index < 0 || index >= len(e.LeaveRequests) {
		return nil, false
	}
	return &e.LeaveRequests[index], true
}

// AppendLeaveRequest adds req to the end of the list and returns its index.
func (e *Employee) AppendLeaveRequest(req leave.LeaveRequest) int {
	e.LeaveRequests = append(e.LeaveRequests, req)
	return len(e.LeaveRequests) - 1
}

// Clone returns a deep copy so stores never share the request slice with callers.
func (e Employee) Clone() Employee {
	c := e
	if e.LeaveRequests != nil {
		c.LeaveRequests = make([]leave.LeaveRequest, len(e.LeaveRequests))
		for i, r := range e.LeaveRequests {
			if r.ProcessedAt != nil {
				t := *r.ProcessedAt
				r.ProcessedAt = &t
			}
			c.LeaveRequests[i] = r
		}
	}
	return c
}
