// Package forms validates user input before it is sent anywhere.
// Validation is field-level: each check yields a message keyed by the
// field name so callers can render errors next to the right prompt.
package forms

import (
	"regexp"
	"strings"
	"sync/atomic"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps field names to user-facing messages. Empty means valid.
type FieldErrors map[string]string

// Valid reports whether no field failed.
func (e FieldErrors) Valid() bool { return len(e) == 0 }

// First returns one error message for compact rendering, or "".
func (e FieldErrors) First() string {
	for _, field := range []string{"first_name", "last_name", "email", "password", "confirm_password", "name", "symbol", "quantity", "purchase_price"} {
		if msg, ok := e[field]; ok {
			return msg
		}
	}
	for _, msg := range e {
		return msg
	}
	return ""
}

// MinPasswordLen is the default client-side password floor.
const MinPasswordLen = 6

// ValidateSignUp checks the registration fields.
func ValidateSignUp(firstName, lastName, email, password, confirmPassword string) FieldErrors {
	errors := FieldErrors{}

	if len(strings.TrimSpace(firstName)) < 2 {
		errors["first_name"] = "First name must be at least 2 characters."
	}
	if len(strings.TrimSpace(lastName)) < 2 {
		errors["last_name"] = "Last name must be at least 2 characters."
	}

	validateEmail(errors, email)

	switch {
	case password == "":
		errors["password"] = "Password is required."
	case len(password) < MinPasswordLen:
		errors["password"] = "Password must be at least 6 characters long."
	case !hasMixedComplexity(password):
		errors["password"] = "Password needs an uppercase letter, a lowercase letter, and a number."
	}

	switch {
	case confirmPassword == "":
		errors["confirm_password"] = "Please confirm your password."
	case password != "" && confirmPassword != password:
		errors["confirm_password"] = "Passwords do not match."
	}

	return errors
}

// ValidateLogIn checks the login fields.
func ValidateLogIn(email, password string) FieldErrors {
	errors := FieldErrors{}
	validateEmail(errors, email)
	if password == "" {
		errors["password"] = "Password is required."
	}
	return errors
}

// ValidateEmail checks a lone email field (password reset form).
func ValidateEmail(email string) FieldErrors {
	errors := FieldErrors{}
	validateEmail(errors, email)
	return errors
}

// ValidateNewPassword checks the update-password fields.
func ValidateNewPassword(password, confirmPassword string) FieldErrors {
	errors := FieldErrors{}
	switch {
	case password == "":
		errors["password"] = "Password is required."
	case len(password) < MinPasswordLen:
		errors["password"] = "Password must be at least 6 characters long."
	}
	if errors.Valid() && confirmPassword != password {
		errors["confirm_password"] = "Passwords do not match."
	}
	return errors
}

// ValidatePortfolioName checks the create-portfolio field.
func ValidatePortfolioName(name string) FieldErrors {
	errors := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errors["name"] = "Portfolio name is required."
	}
	return errors
}

// ValidateHolding checks the add-stock fields.
func ValidateHolding(symbol string, quantity, purchasePrice float64) FieldErrors {
	errors := FieldErrors{}
	if strings.TrimSpace(symbol) == "" {
		errors["symbol"] = "Select a stock to add."
	}
	if quantity <= 0 {
		errors["quantity"] = "Quantity must be a positive number."
	}
	if purchasePrice <= 0 {
		errors["purchase_price"] = "Purchase price must be a positive number."
	}
	return errors
}

func validateEmail(errors FieldErrors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errors["email"] = "Email address is required."
		return
	}
	if !emailPattern.MatchString(email) {
		errors["email"] = "Please enter a valid email address."
	}
}

func hasMixedComplexity(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// SubmitGuard rejects re-entry while a submission is in flight.
type SubmitGuard struct {
	busy atomic.Bool
}

// Begin marks a submission started. Returns false if one is already running.
func (g *SubmitGuard) Begin() bool {
	return g.busy.CompareAndSwap(false, true)
}

// End marks the submission finished.
func (g *SubmitGuard) End() {
	g.busy.Store(false)
}

// Busy reports whether a submission is in flight.
func (g *SubmitGuard) Busy() bool {
	return g.busy.Load()
}
