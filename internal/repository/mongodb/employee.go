package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crewconnect/employee-portal/internal/domain/employee"
	"github.com/crewconnect/employee-portal/internal/domain/leave"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type employeeRepositoryImpl struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewEmployeeRepository(coll *mongo.Collection) employee.EmployeeRepository {
	return &employeeRepositoryImpl{coll: coll, now: time.Now}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return e.findOne(ctx, bson.M{"email": email})
}

func (e *employeeRepositoryImpl) findOne(ctx context.Context, filter bson.M) (employee.Employee, error) {
	var emp employee.Employee
	if err := e.coll.FindOne(ctx, filter).Decode(&emp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to find employee: %w", err)
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
	if newEmployee.LeaveRequests == nil {
		newEmployee.LeaveRequests = []leave.LeaveRequest{}
	}

	now := e.now().UTC().Truncate(time.Millisecond)
	newEmployee.Version = 1
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now

	if _, err := e.coll.InsertOne(ctx, newEmployee); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if isDuplicateID(err) {
				return employee.Employee{}, employee.ErrEmployeeExists
			}
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return newEmployee, nil
}

// Update implements employee.EmployeeRepository. The document is replaced
// only if its version still equals emp.Version.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	next := emp.Clone()
	next.Version = emp.Version + 1
	next.UpdatedAt = e.now().UTC().Truncate(time.Millisecond)
	if next.LeaveRequests == nil {
		next.LeaveRequests = []leave.LeaveRequest{}
	}

	res, err := e.coll.ReplaceOne(ctx, bson.M{"_id": emp.ID, "version": emp.Version}, next)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}
	if res.MatchedCount == 1 {
		return next, nil
	}

	count, err := e.coll.CountDocuments(ctx, bson.M{"_id": emp.ID})
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to check employee with id %s: %w", emp.ID, err)
	}
	if count == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{}, employee.ErrVersionConflict
}

// isDuplicateID reports whether a duplicate key error came from the _id index
// rather than the unique email index.
func isDuplicateID(err error) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 && strings.Contains(e.Message, "index: _id_") {
			return true
		}
	}
	return false
}
