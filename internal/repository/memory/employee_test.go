package memory

import (
	"context"
	"testing"

	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/crewconnect/employee-portal/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository(t *testing.T) {
	repotest.RunEmployeeRepositoryTests(t, NewEmployeeRepository())
}

func TestEmployeeRepository_ReturnsCopies(t *testing.T) {
	repo := NewEmployeeRepository()
	ctx := context.Background()

	emp := repotest.NewEmployee()
	emp.LeaveRequests = []leave.LeaveRequest{{ID: "r1", Status: leave.LeaveRequestStatusPending}}
	created, err := repo.Create(ctx, emp)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	loaded.LeaveRequests[0].Status = leave.LeaveRequestStatusApproved
	loaded.AvailableLeave = 0

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusPending, again.LeaveRequests[0].Status)
	assert.Equal(t, 25, again.AvailableLeave)
}
