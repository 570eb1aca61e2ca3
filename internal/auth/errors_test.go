package auth

import (
	"errors"
	"testing"
)

func TestFormatAuthError_KnownPhrases(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"User already registered", msgAlreadyRegistered},
		{"Invalid login credentials", msgInvalidLogin},
		{"invalid credentials", msgInvalidLogin},
		{"Password should be at least 6 characters", msgPasswordTooShort},
		{"Unable to validate email address: invalid format", msgInvalidEmail},
		{"invalid email", msgInvalidEmail},
		{"Email rate limit exceeded", msgRateLimited},
		{"Email not confirmed", msgEmailNotConfirmed},
		{"Signup is disabled", msgSignupDisabled},
	}

	for _, tt := range tests {
		if got := FormatAuthError(errors.New(tt.raw)); got != tt.want {
			t.Errorf("FormatAuthError(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormatAuthError_CaseInsensitive(t *testing.T) {
	if got := FormatAuthError(errors.New("USER ALREADY REGISTERED")); got != msgAlreadyRegistered {
		t.Errorf("uppercase provider message not matched, got %q", got)
	}
}

func TestFormatAuthError_UnrecognizedFallsBack(t *testing.T) {
	for _, raw := range []string{"something exploded", "HTTP 500", ""} {
		var err error
		if raw != "" {
			err = errors.New(raw)
		}
		if got := FormatAuthError(err); got != msgGeneric {
			t.Errorf("FormatAuthError(%q) = %q, want generic fallback", raw, got)
		}
	}
}
