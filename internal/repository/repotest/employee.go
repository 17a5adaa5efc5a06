// Package repotest holds behaviour checks shared by every
// employee.EmployeeRepository implementation.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewEmployee returns an unsaved employee with a fresh id and email.
func NewEmployee() employee.Employee {
	id := uuid.NewString()
	return employee.Employee{
		ID:             id,
		Username:       "user-" + id[:8],
		Email:          id[:8] + "@crewconnect.test",
		TotalLeave:     employee.DefaultTotalLeave,
		AvailableLeave: employee.DefaultTotalLeave,
	}
}

// RunEmployeeRepositoryTests exercises repo against the repository contract.
func RunEmployeeRepositoryTests(t *testing.T, repo employee.EmployeeRepository) {
	t.Run("create and get", func(t *testing.T) {
		ctx := context.Background()
		created, err := repo.Create(ctx, NewEmployee())
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.Version)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)
		assert.Equal(t, employee.DefaultTotalLeave, byID.AvailableLeave)
		assert.Empty(t, byID.LeaveRequests)

		byEmail, err := repo.GetByEmail(ctx, created.Email)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ctx := context.Background()
		first := NewEmployee()
		_, err := repo.Create(ctx, first)
		require.NoError(t, err)

		second := NewEmployee()
		second.Email = first.Email
		_, err = repo.Create(ctx, second)
		assert.ErrorIs(t, err, employee.ErrEmailExists)
	})

	t.Run("duplicate id", func(t *testing.T) {
		ctx := context.Background()
		first, err := repo.Create(ctx, NewEmployee())
		require.NoError(t, err)

		second := NewEmployee()
		second.ID = first.ID
		_, err = repo.Create(ctx, second)
		assert.ErrorIs(t, err, employee.ErrEmployeeExists)
		assert.NotErrorIs(t, err, employee.ErrEmailExists)

		// The email of the rejected document stays free.
		_, err = repo.GetByEmail(ctx, second.Email)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		ctx := context.Background()
		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		_, err = repo.GetByEmail(ctx, "nobody@crewconnect.test")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		missing := NewEmployee()
		missing.Version = 1
		_, err = repo.Update(ctx, missing)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("update persists ledger and requests", func(t *testing.T) {
		ctx := context.Background()
		created, err := repo.Create(ctx, NewEmployee())
		require.NoError(t, err)

		processedAt := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
		created.AvailableLeave = 20
		created.LOP = 1
		created.AppendLeaveRequest(leave.LeaveRequest{
			ID:             uuid.NewString(),
			LeaveType:      leave.LeaveTypeSick,
			FromDate:       "2024-01-01",
			ToDate:         "2024-01-05",
			Reason:         "flu",
			RequestedDays:  5,
			CompletedLeave: 5,
			Status:         leave.LeaveRequestStatusApproved,
			ProcessedAt:    &processedAt,
			CreatedAt:      processedAt.Add(-time.Hour),
		})

		updated, err := repo.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, created.Version+1, updated.Version)

		loaded, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.Version, loaded.Version)
		assert.Equal(t, 20, loaded.AvailableLeave)
		assert.Equal(t, 1, loaded.LOP)
		require.Len(t, loaded.LeaveRequests, 1)

		req := loaded.LeaveRequests[0]
		assert.Equal(t, leave.LeaveRequestStatusApproved, req.Status)
		assert.Equal(t, 5, req.CompletedLeave)
		require.NotNil(t, req.ProcessedAt)
		assert.True(t, req.ProcessedAt.Equal(processedAt))
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		ctx := context.Background()
		created, err := repo.Create(ctx, NewEmployee())
		require.NoError(t, err)

		first := created
		first.AvailableLeave = 10
		_, err = repo.Update(ctx, first)
		require.NoError(t, err)

		stale := created
		stale.AvailableLeave = 5
		_, err = repo.Update(ctx, stale)
		assert.ErrorIs(t, err, employee.ErrVersionConflict)

		loaded, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, loaded.AvailableLeave)
	})
}
