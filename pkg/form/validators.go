package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Validator is an interface for form field validation.
type Validator interface {
	// Validate checks if the value is valid.
	// Returns nil if valid, or an error with a message if invalid.
	Validate(value string) error
}

// ValidatorFunc is a function that implements Validator.
type ValidatorFunc func(value string) error

func (f ValidatorFunc) Validate(value string) error {
	return f(value)
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// emailPattern requires a non-empty local part, exactly one @ with no
// whitespace anywhere, and a dot somewhere after the @.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required validates that the trimmed value is non-empty.
// The message names the field: "{name} is required".
func Required(name string) Validator {
	return ValidatorFunc(func(value string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{Field: name, Message: fmt.Sprintf("%s is required", name)}
		}
		return nil
	})
}

// Email validates the value's email shape. Empty values pass; Required
// handles emptiness.
func Email() Validator {
	return ValidatorFunc(func(value string) error {
		if value == "" {
			return nil
		}
		if !emailPattern.MatchString(value) {
			return ValidationError{Message: "Please enter a valid email address"}
		}
		return nil
	})
}

// Number validates that a non-empty value parses as a number.
func Number() Validator {
	return ValidatorFunc(func(value string) error {
		if value == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return ValidationError{Message: "Please enter a valid number"}
		}
		return nil
	})
}

// Phone validates phone shape: every character must be a digit, space,
// hyphen, parenthesis, or plus sign, and at least 10 of them digits.
func Phone() Validator {
	return ValidatorFunc(func(value string) error {
		if value == "" {
			return nil
		}
		digits := 0
		for _, r := range value {
			switch {
			case unicode.IsDigit(r):
				digits++
			case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
			default:
				return ValidationError{Message: "Please enter a valid phone number"}
			}
		}
		if digits < 10 {
			return ValidationError{Message: "Please enter a valid phone number"}
		}
		return nil
	})
}

// MinLen validates that the trimmed value has at least n characters.
func MinLen(n int) Validator {
	return ValidatorFunc(func(value string) error {
		if len([]rune(strings.TrimSpace(value))) < n {
			return ValidationError{Message: fmt.Sprintf("Minimum length is %d characters", n)}
		}
		return nil
	})
}

// rulesFor assembles the validation pipeline for a field, in the order the
// rules are applied. The first failing rule wins.
func rulesFor(f Field) []Validator {
	var rules []Validator
	if f.Required() {
		rules = append(rules, Required(f.Label()))
	}
	switch f.Type() {
	case "email":
		rules = append(rules, Email())
	case "number":
		rules = append(rules, Number())
	case "tel":
		rules = append(rules, Phone())
	}
	if min, ok := f.MinLength(); ok {
		rules = append(rules, MinLen(min))
	}
	return rules
}

// Check runs the field's validation pipeline and returns the outcome plus
// the first failure message. Checking has no side effects; use Validate to
// synchronize the field's annotation as well.
func Check(f Field) (bool, string) {
	for _, v := range rulesFor(f) {
		if err := v.Validate(f.Value()); err != nil {
			return false, err.Error()
		}
	}
	return true, ""
}

// Validate checks a field and synchronizes its error annotation through the
// presenter: shown on failure, cleared on success. Re-validating a field in
// the same state is idempotent and never duplicates annotations.
func Validate(p *Presenter, f Field) bool {
	ok, msg := Check(f)
	if ok {
		p.Clear(f)
	} else {
		p.Show(f, msg)
	}
	return ok
}
