package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validation errors reported by Validate.
var (
	ErrEmptyName     = errors.New("empty strain name")
	ErrDuplicateName = errors.New("duplicate strain name")
	ErrUnknownType   = errors.New("unknown strain type")
)

var (
	strainValidate     *validator.Validate
	strainValidateOnce sync.Once
)

// ruleErrors maps the struct tags on Strain to the sentinel each failure wraps.
var ruleErrors = map[string]error{
	"notblank": ErrEmptyName,
	"oneof":    ErrUnknownType,
	"thcrange": ErrMalformedRange,
}

func strainValidator() *validator.Validate {
	strainValidateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("thcrange", func(fl validator.FieldLevel) bool {
			_, err := RangeLow(fl.Field().String())
			return err == nil
		}); err != nil {
			panic(err)
		}
		strainValidate = v
	})
	return strainValidate
}

// Validate checks catalog invariants: names are present and unique
// (case-insensitively), types are enumerated, and every THC range has a
// parseable non-negative lower bound. All violations are reported together.
func Validate(strains []Strain) error {
	var errs []error
	seen := make(map[string]int, len(strains))

	for i := range strains {
		s := &strains[i]
		errs = append(errs, fieldErrors(i, s)...)

		// Uniqueness spans records and ignores case, so it stays out of the tags.
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" {
			continue
		}
		if prev, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("entry %d %q (first at %d): %w", i, s.Name, prev, ErrDuplicateName))
		} else {
			seen[key] = i
		}
	}

	return errors.Join(errs...)
}

func fieldErrors(i int, s *Strain) []error {
	err := strainValidator().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []error{fmt.Errorf("entry %d: %w", i, err)}
	}
	out := make([]error, 0, len(ves))
	for _, fe := range ves {
		sentinel, ok := ruleErrors[fe.Tag()]
		if !ok {
			sentinel = fmt.Errorf("failed %s", fe.Tag())
		}
		out = append(out, fmt.Errorf("entry %d %q %s %q: %w", i, s.Name, fe.Field(), fe.Value(), sentinel))
	}
	return out
}
