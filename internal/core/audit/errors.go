package audit

import "errors"

var (
	ErrEntryNotFound     = errors.New("audit: entry not found")
	ErrInvalidID         = errors.New("audit: invalid id")
	ErrInvalidAction     = errors.New("audit: invalid action")
	ErrInvalidEntry      = errors.New("audit: invalid entry")
	ErrInvalidPageSize   = errors.New("audit: invalid page size")
	ErrInvalidPageToken  = errors.New("audit: invalid page token")
	ErrInvalidEmployeeID = errors.New("audit: invalid employee id")
)
