package explore

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	svcErr "github.com/oggyb/muzz-match/internal/errors"
)

var (
	validateOnce sync.Once
	reqValidator *validator.Validate
)

// requestValidator reports field names as their json names, so violations
// match what the client sent.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		reqValidator = v
	})
	return reqValidator
}

// validate checks a request and returns an InvalidArgument status on failure.
func validate(req any) error {
	if req == nil || reflect.ValueOf(req).IsNil() {
		return svcErr.InvalidArgument("request is required")
	}
	if err := requestValidator().Struct(req); err != nil {
		return svcErr.Map(err)
	}
	return nil
}
