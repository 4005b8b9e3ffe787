package grpc

import (
	"net/http"

	"github.com/marcaudefroy/adapter-mock/pkg/mocks"
	"google.golang.org/grpc/codes"
)

// Code maps a Response onto a gRPC status code. Responses that are neither
// flagged as errors nor carry a 4xx/5xx status are OK.
func Code(resp *mocks.Response) codes.Code {
	if resp.Meta.Timeout {
		return codes.DeadlineExceeded
	}
	if !resp.Meta.Error && resp.Status < 400 {
		return codes.OK
	}

	switch resp.Status {
	case 0:
		return codes.Unavailable
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusPreconditionFailed:
		return codes.FailedPrecondition
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case 499:
		return codes.Canceled
	case http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}
	if resp.Status >= 500 && resp.Status < 600 {
		return codes.Internal
	}
	return codes.Unknown
}
