package leave

import (
	"time"
)

type LeaveType string

const (
	LeaveTypeCasual      LeaveType = "Casual"
	LeaveTypeSick        LeaveType = "Sick"
	LeaveTypeEarned      LeaveType = "Earned"
	LeaveTypeMaternity   LeaveType = "Maternity"
	LeaveTypePaternity   LeaveType = "Paternity"
	LeaveTypeBereavement LeaveType = "Bereavement"
	LeaveTypeOther       LeaveType = "Other"
)

var leaveTypes = []LeaveType{
	LeaveTypeCasual,
	LeaveTypeSick,
	LeaveTypeEarned,
	LeaveTypeMaternity,
	LeaveTypePaternity,
	LeaveTypeBereavement,
	LeaveTypeOther,
}

func (t LeaveType) IsValid() bool {
	for _, lt := range leaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "Pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "Approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "Rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusApproved || s == LeaveRequestStatusRejected
}

// IsResolution reports whether s is a valid target of an approval action.
func (s LeaveRequestStatus) IsResolution() bool {
	return s.IsTerminal()
}

const DateLayout = "2006-01-02"

// LeaveRequest is embedded in the employee document. Its position in the
// employee's list never changes once appended.
type LeaveRequest struct {
	ID        string    `json:"id" bson:"id"`
	LeaveType LeaveType `json:"leaveType" bson:"leaveType"`
	FromDate  string    `json:"fromDate" bson:"fromDate"`
	ToDate    string    `json:"toDate" bson:"toDate"`
	Reason    string    `json:"reason" bson:"reason"`

	RequestedDays  int `json:"requestedDays" bson:"requestedDays"`
	CompletedLeave int `json:"completedLeave" bson:"completedLeave"`
	LOP            int `json:"LOP" bson:"LOP"`

	Status      LeaveRequestStatus `json:"status" bson:"status"`
	ProcessedAt *time.Time         `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Resolve moves a pending request to Approved or Rejected. A request that is
// already terminal is left untouched and ErrLeaveRequestAlreadyProcessed is
// returned.
func (r *LeaveRequest) Resolve(status LeaveRequestStatus, now time.Time) error {
	if !status.IsResolution() {
		return ErrInvalidStatus
	}
	if r.Status.IsTerminal() {
		return ErrLeaveRequestAlreadyProcessed
	}
	processedAt := now
	r.Status = status
	r.ProcessedAt = &processedAt
	return nil
}
