package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Validation errors.
var (
	ErrInvalidAction     = errors.New("action must be one of: like, pass")
	ErrSelfAction        = errors.New("cannot act on yourself")
	ErrSelfBlock         = errors.New("cannot block yourself")
	ErrIncompleteProfile = errors.New("profile is incomplete")
)

// Conflict errors. Expected under concurrency.
var (
	ErrDuplicateSwipe = errors.New("swipe already recorded for this pair")
	ErrDuplicateMatch = errors.New("match already exists for this pair")
)

// Reference errors.
var (
	ErrTargetNotFound = errors.New("target user not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrMatchNotFound  = errors.New("match not found")
)

// ErrBlocked means one of the pair has blocked the other. Over the API it
// reads as a missing user.
var ErrBlocked = errors.New("users are blocked")

// ValidationError ties a validation failure to the input field that caused it.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Steps of the match transaction.
const (
	StepMatch        = "match"
	StepConversation = "conversation"
)

// MatchError reports which insert of the match transaction failed.
// Nothing was committed when it is returned.
type MatchError struct {
	Step string
	Err  error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Step, e.Err)
}

func (e *MatchError) Unwrap() error { return e.Err }

// isDuplicateKey recognizes unique/PK violations from any supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key") // postgres
}
