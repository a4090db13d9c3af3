package grpcserver

import (
	"context"
	"errors"

	"github.com/rzbill/cmdring/internal/device"
	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var code codes.Code
	switch {
	case errors.Is(err, device.ErrInvalidArgument), errors.Is(err, commandsvc.ErrInvalidFilter):
		code = codes.InvalidArgument
	case errors.Is(err, device.ErrResourceExhausted):
		code = codes.ResourceExhausted
	case errors.Is(err, device.ErrLockUnavailable):
		code = codes.Unavailable
	case errors.Is(err, device.ErrClosed), errors.Is(err, commandsvc.ErrArchiveDisabled):
		code = codes.FailedPrecondition
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
