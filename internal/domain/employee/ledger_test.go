package employee

import (
	"testing"
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/stretchr/testify/assert"
)

func TestChargeLeave(t *testing.T) {
	cases := []struct {
		name          string
		available     int
		lop           int
		requested     int
		wantCompleted int
		wantLOP       int
		wantAvailable int
		wantTotalLOP  int
	}{
		{"within balance", 25, 0, 5, 5, 0, 20, 0},
		{"exact balance", 5, 0, 5, 5, 0, 0, 0},
		{"partial loss of pay", 5, 0, 8, 5, 3, 0, 3},
		{"empty balance", 0, 2, 4, 0, 4, 0, 6},
		{"zero days", 10, 1, 0, 0, 0, 10, 1},
		{"negative days ignored", 10, 0, -3, 0, 0, 10, 0},
		{"corrupt negative balance clamped", -2, 0, 3, 0, 3, 0, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			emp := Employee{AvailableLeave: c.available, LOP: c.lop}
			prior := emp.AvailableLeave

			completed, lop := emp.ChargeLeave(c.requested)

			assert.Equal(t, c.wantCompleted, completed)
			assert.Equal(t, c.wantLOP, lop)
			assert.Equal(t, c.wantAvailable, emp.AvailableLeave)
			assert.Equal(t, c.wantTotalLOP, emp.LOP)
			assert.GreaterOrEqual(t, emp.AvailableLeave, 0)
			if c.requested >= 0 {
				assert.Equal(t, c.requested, completed+lop)
				assert.LessOrEqual(t, completed, max(prior, 0))
			}
		})
	}
}

func TestRestoreLeave_ReversesExactSplit(t *testing.T) {
	emp := Employee{TotalLeave: 25, AvailableLeave: 5}

	completed, lop := emp.ChargeLeave(8)
	assert.Equal(t, 5, completed)
	assert.Equal(t, 3, lop)
	assert.Equal(t, 0, emp.AvailableLeave)
	assert.Equal(t, 3, emp.LOP)

	emp.RestoreLeave(leave.LeaveRequest{RequestedDays: 8, CompletedLeave: completed, LOP: lop})

	assert.Equal(t, 5, emp.AvailableLeave)
	assert.Equal(t, 0, emp.LOP)
}

func TestRestoreLeave_NeverNegativeLOP(t *testing.T) {
	emp := Employee{AvailableLeave: 0, LOP: 1}
	emp.RestoreLeave(leave.LeaveRequest{CompletedLeave: 2, LOP: 4})

	assert.Equal(t, 2, emp.AvailableLeave)
	assert.Equal(t, 0, emp.LOP)
}

func TestLeaveRequestAt(t *testing.T) {
	emp := Employee{}
	idx := emp.AppendLeaveRequest(leave.LeaveRequest{ID: "a"})
	assert.Equal(t, 0, idx)
	idx = emp.AppendLeaveRequest(leave.LeaveRequest{ID: "b"})
	assert.Equal(t, 1, idx)

	req, ok := emp.LeaveRequestAt(1)
	assert.True(t, ok)
	assert.Equal(t, "b", req.ID)

	_, ok = emp.LeaveRequestAt(2)
	assert.False(t, ok)
	_, ok = emp.LeaveRequestAt(-1)
	assert.False(t, ok)
}

func TestClone_DoesNotShareRequests(t *testing.T) {
	now := time.Now()
	emp := Employee{LeaveRequests: []leave.LeaveRequest{{ID: "a", ProcessedAt: &now}}}

	c := emp.Clone()
	c.LeaveRequests[0].Status = leave.LeaveRequestStatusRejected
	*c.LeaveRequests[0].ProcessedAt = now.Add(time.Hour)

	assert.Equal(t, leave.LeaveRequestStatus(""), emp.LeaveRequests[0].Status)
	assert.True(t, emp.LeaveRequests[0].ProcessedAt.Equal(now))
}
