package employee

import "context"

// EmployeeRepository persists the employee document, leave ledger included.
// Update succeeds only when the stored Version equals emp.Version and returns
// the document with its new Version; otherwise it returns ErrVersionConflict.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
}
