// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-match/internal/repository"
	"github.com/oggyb/muzz-match/internal/utils/pagination"
)

// Map converts repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
//
//   - validation  -> InvalidArgument (with field violations)
//   - conflicts   -> AlreadyExists
//   - references  -> NotFound (blocked pairs too)
//   - incomplete profile -> FailedPrecondition
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		verr  *repository.ValidationError
		vErrs validator.ValidationErrors
	)

	switch {
	case errors.As(err, &vErrs):
		return FromValidator(vErrs)

	case errors.As(err, &verr):
		return withViolations(codes.InvalidArgument, verr.Error(), violation(verr.Field, verr.Err.Error()))

	case errors.Is(err, pagination.ErrInvalidToken):
		return withViolations(codes.InvalidArgument, err.Error(), violation("pagination_token", err.Error()))

	case errors.Is(err, repository.ErrInvalidAction):
		return withViolations(codes.InvalidArgument, err.Error(), violation("action", err.Error()))

	case errors.Is(err, repository.ErrDuplicateSwipe),
		errors.Is(err, repository.ErrDuplicateMatch):
		return status.Error(codes.AlreadyExists, rootMessage(err))

	case errors.Is(err, repository.ErrTargetNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrMatchNotFound):
		return status.Error(codes.NotFound, rootMessage(err))

	case errors.Is(err, repository.ErrBlocked):
		// do not tell a blocked user that they were blocked
		return status.Error(codes.NotFound, repository.ErrTargetNotFound.Error())

	case errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, repository.ErrIncompleteProfile):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return status.Error(codes.Internal, err.Error())
	}
}

// FromValidator turns request validation failures into InvalidArgument with
// one field violation per failed field.
func FromValidator(errs validator.ValidationErrors) error {
	violations := make([]*errdetails.BadRequest_FieldViolation, 0, len(errs))
	for _, fe := range errs {
		violations = append(violations, violation(fe.Field(), describe(fe)))
	}
	return withViolations(codes.InvalidArgument, "invalid request", violations...)
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// AlreadyExists creates a gRPC AlreadyExists error.
func AlreadyExists(msg string) error {
	return status.Error(codes.AlreadyExists, msg)
}

// FieldViolations extracts the field -> description pairs from a status error.
func FieldViolations(err error) map[string]string {
	out := map[string]string{}
	st, ok := status.FromError(err)
	if !ok {
		return out
	}
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			for _, v := range br.GetFieldViolations() {
				out[v.GetField()] = v.GetDescription()
			}
		}
	}
	return out
}

func violation(field, desc string) *errdetails.BadRequest_FieldViolation {
	return &errdetails.BadRequest_FieldViolation{Field: field, Description: desc}
}

func withViolations(code codes.Code, msg string, violations ...*errdetails.BadRequest_FieldViolation) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: violations})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "nefield":
		return "must differ from " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// rootMessage prefers the domain sentinel's text over the driver error
// wrapped around it.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		repository.ErrDuplicateSwipe,
		repository.ErrDuplicateMatch,
		repository.ErrTargetNotFound,
		repository.ErrUserNotFound,
		repository.ErrMatchNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
