package employee

import (
	"context"
	"testing"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/pkg/validator"
	"github.com/crewconnect/employee-portal/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== EMPLOYEE SERVICE TESTS =====

func TestEmployeeService_Create_DefaultEntitlement(t *testing.T) {
	ctx := context.Background()
	svc := NewEmployeeService(memory.NewEmployeeRepository(), employee.DefaultTotalLeave)

	// Act
	resp, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		Username: "alice",
		Email:    "  Alice@CrewConnect.test ",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "alice@crewconnect.test", resp.Email)
	assert.Equal(t, 25, resp.TotalLeave)
	assert.Equal(t, 25, resp.AvailableLeave)
	assert.Equal(t, 0, resp.LOP)

	got, err := svc.GetEmployee(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}

func TestEmployeeService_Create_CustomEntitlement(t *testing.T) {
	svc := NewEmployeeService(memory.NewEmployeeRepository(), employee.DefaultTotalLeave)
	total := 12

	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		Username:   "bob",
		Email:      "bob@crewconnect.test",
		TotalLeave: &total,
	})

	require.NoError(t, err)
	assert.Equal(t, 12, resp.TotalLeave)
	assert.Equal(t, 12, resp.AvailableLeave)
}

func TestEmployeeService_Create_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewEmployeeService(memory.NewEmployeeRepository(), employee.DefaultTotalLeave)

	_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Username: "carol", Email: "carol@crewconnect.test"})
	require.NoError(t, err)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Username: "carol2", Email: "carol@crewconnect.test"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	negative := -1
	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Username: "", Email: "not-an-email", TotalLeave: &negative})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestEmployeeService_Get_Errors(t *testing.T) {
	svc := NewEmployeeService(memory.NewEmployeeRepository(), employee.DefaultTotalLeave)

	_, err := svc.GetEmployee(context.Background(), "42")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.GetEmployee(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
