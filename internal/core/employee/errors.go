package employee

import "errors"

var (
	ErrInvalidEmployeeID     = errors.New("employee: invalid employee id")
	ErrInvalidRecord         = errors.New("employee: invalid record")
	ErrInvalidPageSize       = errors.New("employee: invalid page size")
	ErrInvalidPageToken      = errors.New("employee: invalid page token")
	ErrEmployeeNotFound      = errors.New("employee: not found")
	ErrEmployeeAlreadyExists = errors.New("employee: employee id already exists")
)
