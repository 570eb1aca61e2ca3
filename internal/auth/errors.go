package auth

import "strings"

// Fixed user-facing messages for known provider failures.
const (
	msgAlreadyRegistered = "An account with this email already exists. Please log in."
	msgInvalidLogin      = "Invalid email or password. Please check your credentials."
	msgPasswordTooShort  = "Password must be at least 6 characters long."
	msgInvalidEmail      = "Please enter a valid email address."
	msgRateLimited       = "Too many attempts. Please try again later."
	msgEmailNotConfirmed = "Please confirm your email address before logging in."
	msgSignupDisabled    = "Account creation is currently disabled. Please try again later."
	msgGeneric           = "An unexpected error occurred. Please try again."
)

// substitution order matters: first match wins.
var knownErrors = []struct {
	substr  string
	message string
}{
	{"already registered", msgAlreadyRegistered},
	{"invalid login credentials", msgInvalidLogin},
	{"invalid credentials", msgInvalidLogin},
	{"password should be at least", msgPasswordTooShort},
	{"unable to validate email address", msgInvalidEmail},
	{"invalid email", msgInvalidEmail},
	{"rate limit", msgRateLimited},
	{"email not confirmed", msgEmailNotConfirmed},
	{"signup is disabled", msgSignupDisabled},
}

// FormatAuthError translates a raw provider error into a fixed
// user-facing message. Matching is case-insensitive on known provider
// phrases; anything unrecognized maps to the generic fallback.
func FormatAuthError(err error) string {
	if err == nil || err.Error() == "" {
		return msgGeneric
	}
	msg := strings.ToLower(err.Error())
	for _, known := range knownErrors {
		if strings.Contains(msg, known.substr) {
			return known.message
		}
	}
	return msgGeneric
}
