package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/crewconnect/employee-portal/internal/pkg/database"
	"github.com/crewconnect/employee-portal/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation      = "23505"
	primaryKeyConstraint = "employees_pkey"
)

const employeeColumns = `id, username, email, total_leave, available_leave, lop, leave_requests, version, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !validator.IsValidUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(e.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`

	emp, err := scanEmployee(e.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with email %s: %w", email, err)
	}
	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, err
		}
		newEmployee.ID = id.String()
	}

	requests, err := marshalRequests(newEmployee.LeaveRequests)
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		INSERT INTO employees (id, username, email, total_leave, available_leave, lop, leave_requests, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(e.db.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.Username, newEmployee.Email,
		newEmployee.TotalLeave, newEmployee.AvailableLeave, newEmployee.LOP, requests,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == primaryKeyConstraint {
				return employee.Employee{}, employee.ErrEmployeeExists
			}
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository. The row is written only if
// its version still equals emp.Version.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	if !validator.IsValidUUID(emp.ID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	requests, err := marshalRequests(emp.LeaveRequests)
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		UPDATE employees
		SET username = $1, email = $2, total_leave = $3, available_leave = $4, lop = $5,
			leave_requests = $6, version = version + 1, updated_at = NOW()
		WHERE id = $7 AND version = $8
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(e.db.QueryRow(ctx, query,
		emp.Username, emp.Email, emp.TotalLeave, emp.AvailableLeave, emp.LOP,
		requests, emp.ID, emp.Version,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}

	var exists bool
	if err := e.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, emp.ID).Scan(&exists); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to check employee with id %s: %w", emp.ID, err)
	}
	if !exists {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{}, employee.ErrVersionConflict
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp      employee.Employee
		requests []byte
	)
	err := row.Scan(
		&emp.ID, &emp.Username, &emp.Email,
		&emp.TotalLeave, &emp.AvailableLeave, &emp.LOP, &requests,
		&emp.Version, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if len(requests) > 0 {
		if err := json.Unmarshal(requests, &emp.LeaveRequests); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to decode leave requests of employee %s: %w", emp.ID, err)
		}
	}
	return emp, nil
}

func marshalRequests(requests []leave.LeaveRequest) ([]byte, error) {
	if requests == nil {
		requests = []leave.LeaveRequest{}
	}
	b, err := json.Marshal(requests)
	if err != nil {
		return nil, fmt.Errorf("failed to encode leave requests: %w", err)
	}
	return b, nil
}
