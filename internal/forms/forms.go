// Package forms implements client-side validation for the auth and profile
// forms. Validation runs before any network call; an invalid form never
// reaches the backend.
package forms

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinPasswordLength = 8
	MinNameLength     = 2
	MaxNameLength     = 30
	MinAge            = 13
	MaxAge            = 120
	MinRating         = 1
	MaxRating         = 5
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
	// Quote, backtick, semicolon, and slash characters are rejected
	// outright and never count as the required special character.
	specialPattern   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|:,.<>?~]`)
	forbiddenPattern = regexp.MustCompile("['\"`;\\\\/]")
)

// Result is the outcome of validating a whole form. Errors maps field names
// to the first failure found for that field.
type Result struct {
	IsValid bool
	Errors  map[string]string
}

func newResult() Result {
	return Result{IsValid: true, Errors: map[string]string{}}
}

func (r *Result) fail(field, message string) {
	r.IsValid = false
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = message
	}
}

// ValidateEmail checks basic address shape.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}

// ValidatePassword enforces the account password policy: at least
// [MinPasswordLength] characters with a digit and a special character, no
// quote, backtick, semicolon, or slash characters, and not all whitespace.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be only spaces")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if forbiddenPattern.MatchString(password) {
		return fmt.Errorf("password contains forbidden characters")
	}
	if !digitPattern.MatchString(password) {
		return fmt.Errorf("password must contain a number")
	}
	if !specialPattern.MatchString(password) {
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}

// ValidateConfirmation checks that the confirmation matches the password.
func ValidateConfirmation(password, confirmation string) error {
	if confirmation == "" {
		return fmt.Errorf("password confirmation is required")
	}
	if password != confirmation {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// ValidateName checks display name length bounds.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return fmt.Errorf("name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	return nil
}

// ValidateAge checks the age bounds for account creation.
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
	}
	return nil
}

// ValidateRating checks a star rating against the 1 to 5 scale.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateLoginForm validates the login fields together.
func ValidateLoginForm(email, password string) Result {
	result := newResult()

	if err := ValidateEmail(email); err != nil {
		result.fail("email", err.Error())
	}
	if err := ValidatePassword(password); err != nil {
		result.fail("password", err.Error())
	}

	return result
}

// ValidateRegisterForm validates the registration fields together.
func ValidateRegisterForm(name, email string, age int, password, confirmation string) Result {
	result := newResult()

	if err := ValidateName(name); err != nil {
		result.fail("name", err.Error())
	}
	if err := ValidateEmail(email); err != nil {
		result.fail("email", err.Error())
	}
	if err := ValidateAge(age); err != nil {
		result.fail("age", err.Error())
	}
	if err := ValidatePassword(password); err != nil {
		result.fail("password", err.Error())
	}
	if err := ValidateConfirmation(password, confirmation); err != nil {
		result.fail("confirmation", err.Error())
	}

	return result
}
