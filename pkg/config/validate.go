package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
			if name == "" {
				return f.Name
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// FieldError reports a setting that failed validation.
type FieldError struct {
	// Key is the dotted config key, such as "render.reentrancy_cap".
	Key string
	// Rule is the failed validation rule.
	Rule  string
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: invalid value %v (rule %s)", e.Key, e.Value, e.Rule)
}

// Validate checks cfg. The returned error wraps a *FieldError for the first
// invalid setting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return configError("validate", errors.New("configuration is nil"))
	}
	err := validatorInstance().Struct(cfg)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		return configError("validate", &FieldError{Key: key, Rule: fe.Tag(), Value: fe.Value()})
	}
	return configError("validate", err)
}

// IsFieldError reports whether err came from an invalid setting.
func IsFieldError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}
