package memory

import (
	"context"
	"sync"
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/google/uuid"
)

// EmployeeRepository keeps employees in process memory. Documents are
// copied on every read and write.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	byEmail   map[string]string
	now       func() time.Time
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[string]employee.Employee),
		byEmail:   make(map[string]string),
		now:       time.Now,
	}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp.Clone(), nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.employees[id].Clone(), nil
}

func (r *EmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, err
		}
		newEmployee.ID = id.String()
	}
	if _, exists := r.employees[newEmployee.ID]; exists {
		return employee.Employee{}, employee.ErrEmployeeExists
	}
	if _, exists := r.byEmail[newEmployee.Email]; exists {
		return employee.Employee{}, employee.ErrEmailExists
	}

	now := r.now().UTC()
	newEmployee.Version = 1
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now

	r.employees[newEmployee.ID] = newEmployee.Clone()
	r.byEmail[newEmployee.Email] = newEmployee.ID
	return newEmployee.Clone(), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.employees[emp.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if current.Version != emp.Version {
		return employee.Employee{}, employee.ErrVersionConflict
	}
	if current.Email != emp.Email {
		if owner, taken := r.byEmail[emp.Email]; taken && owner != emp.ID {
			return employee.Employee{}, employee.ErrEmailExists
		}
		delete(r.byEmail, current.Email)
		r.byEmail[emp.Email] = emp.ID
	}

	next := emp.Clone()
	next.Version = current.Version + 1
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.now().UTC()

	r.employees[emp.ID] = next
	return next.Clone(), nil
}
