package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	employeeRepo      employee.EmployeeRepository
	defaultTotalLeave int
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, defaultTotalLeave int) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:      employeeRepo,
		defaultTotalLeave: defaultTotalLeave,
	}
}

// CreateEmployee implements employee.EmployeeService. A new employee starts
// with the full entitlement available and no loss of pay.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	total := s.defaultTotalLeave
	if req.TotalLeave != nil {
		total = *req.TotalLeave
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Username:       req.Username,
		Email:          req.Email,
		TotalLeave:     total,
		AvailableLeave: total,
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee created", "employee_id", created.ID, "total_leave", total)
	return employee.NewEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{
			Field:   "id",
			Message: "Invalid employee ID format",
		}}
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}
