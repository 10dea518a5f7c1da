package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	svcErr "github.com/oggyb/muzz-match/internal/errors"
	"github.com/oggyb/muzz-match/internal/repository"
	"github.com/oggyb/muzz-match/internal/utils/pagination"
)

func TestMap_Codes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"duplicate swipe", repository.ErrDuplicateSwipe, codes.AlreadyExists},
		{"duplicate match in tx", &repository.MatchError{Step: repository.StepMatch, Err: fmt.Errorf("%w: unique", repository.ErrDuplicateMatch)}, codes.AlreadyExists},
		{"missing user in tx", &repository.MatchError{Step: repository.StepMatch, Err: repository.ErrUserNotFound}, codes.NotFound},
		{"target not found", repository.ErrTargetNotFound, codes.NotFound},
		{"match not found", repository.ErrMatchNotFound, codes.NotFound},
		{"blocked pair", repository.ErrBlocked, codes.NotFound},
		{"incomplete", repository.ErrIncompleteProfile, codes.FailedPrecondition},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"bad page token", pagination.ErrInvalidToken, codes.InvalidArgument},
		{"other", fmt.Errorf("boom"), codes.Internal},
		{"already status", status.Error(codes.PermissionDenied, "no"), codes.PermissionDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, status.Code(svcErr.Map(tc.err)))
		})
	}
}

func TestMap_DomainValidationCarriesField(t *testing.T) {
	err := svcErr.Map(&repository.ValidationError{Field: "action", Err: repository.ErrInvalidAction})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	violations := svcErr.FieldViolations(err)
	assert.Contains(t, violations, "action")
}

func TestMap_ConflictMessageHidesDriverText(t *testing.T) {
	err := svcErr.Map(&repository.MatchError{
		Step: repository.StepMatch,
		Err:  fmt.Errorf("%w: UNIQUE constraint failed: matches.user_a_id", repository.ErrDuplicateMatch),
	})
	st, _ := status.FromError(err)
	assert.Equal(t, repository.ErrDuplicateMatch.Error(), st.Message())
}

func TestMap_BlockedLooksLikeMissingUser(t *testing.T) {
	st, _ := status.FromError(svcErr.Map(repository.ErrBlocked))
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, repository.ErrTargetNotFound.Error(), st.Message())
}

func TestFromValidator(t *testing.T) {
	type req struct {
		UserID uint64 `json:"user_id" validate:"required"`
		Action string `json:"action" validate:"required,oneof=like pass"`
	}
	v := validator.New(validator.WithRequiredStructEnabled())

	verr := v.Struct(req{Action: "wink"})
	require.Error(t, verr)

	err := svcErr.Map(verr)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	violations := svcErr.FieldViolations(err)
	assert.Equal(t, "is required", violations["UserID"])
	assert.Equal(t, "must be one of: like pass", violations["Action"])
}
