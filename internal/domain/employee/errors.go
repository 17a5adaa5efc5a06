package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeExists   = errors.New("employee id already exists")
	ErrEmailExists      = errors.New("email already registered")
	ErrVersionConflict  = errors.New("employee was modified concurrently")
)
