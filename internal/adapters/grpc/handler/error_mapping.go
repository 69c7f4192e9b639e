package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/access"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/audit"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/operator"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

func toStatusError(err error) error {
	if _, ok := status.FromError(err); ok && err != nil {
		return err
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, employee.ErrInvalidEmployeeID),
		errors.Is(err, employee.ErrInvalidRecord),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, employee.ErrInvalidPageToken),
		errors.Is(err, audit.ErrInvalidID),
		errors.Is(err, audit.ErrInvalidAction),
		errors.Is(err, audit.ErrInvalidEntry),
		errors.Is(err, audit.ErrInvalidEmployeeID),
		errors.Is(err, audit.ErrInvalidPageSize),
		errors.Is(err, audit.ErrInvalidPageToken),
		errors.Is(err, operator.ErrInvalidEmail),
		errors.Is(err, operator.ErrInvalidName),
		errors.Is(err, operator.ErrInvalidStatus),
		errors.Is(err, operator.ErrInvalidID),
		errors.Is(err, operator.ErrInvalidPageSize),
		errors.Is(err, operator.ErrInvalidPageToken),
		errors.Is(err, access.ErrInvalidRole),
		errors.Is(err, talent.ErrInvalidRequirements):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrEmployeeAlreadyExists), errors.Is(err, operator.ErrEmailAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, audit.ErrEntryNotFound),
		errors.Is(err, operator.ErrOperatorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, operator.ErrSelfLockout):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, access.ErrPermissionDenied), errors.Is(err, operator.ErrOperatorInactive):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, access.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
