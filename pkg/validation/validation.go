package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Patient IDs are alphanumeric with hyphens/underscores, up to 64 chars
	patientIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)
)

// vitalRange is a physiologically plausible bound for an ingested
// measurement. Values outside it are rejected as sensor noise or
// unit errors rather than silently accepted.
type vitalRange struct {
	min, max float64
	unit     string
}

var vitalRanges = map[string]vitalRange{
	"heart_rate":       {20, 300, "bpm"},
	"spo2":             {0, 100, "%"},
	"systolic_bp":      {30, 300, "mmHg"},
	"diastolic_bp":     {10, 200, "mmHg"},
	"respiratory_rate": {4, 80, "breaths/min"},
	"temperature":      {25, 45, "°C"},
	"iculos":           {0, 10000, "hours"},
	"wbc":              {100, 100000, "cells/µL"},
}

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateVital checks a single measurement against its plausible range.
// Unknown field names are rejected. A nil value is always valid since
// missing fields are imputed downstream.
func ValidateVital(field string, value *float64) error {
	r, ok := vitalRanges[field]
	if !ok {
		return fmt.Errorf("unknown vital field: %s", field)
	}

	if value == nil {
		return nil
	}

	if *value < r.min || *value > r.max {
		return fmt.Errorf("%s value %g out of plausible range [%g, %g] %s",
			field, *value, r.min, r.max, r.unit)
	}

	return nil
}

// ValidatePatientID checks if a patient identifier is acceptable. Empty
// is allowed because manual entries may be anonymous.
func ValidatePatientID(id string) error {
	id = SanitizeString(id)
	if id == "" {
		return nil
	}

	if !patientIDRegex.MatchString(id) {
		return errors.New("patient id must start with alphanumeric and contain only letters, numbers, hyphens, and underscores")
	}

	return nil
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) error {
	username = SanitizeString(username)

	if username == "" {
		return errors.New("username cannot be empty")
	}

	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}

	if len(username) > 50 {
		return errors.New("username must not exceed 50 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 128 {
		return errors.New("password must not exceed 128 characters")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return errors.New("password must contain at least one number")
	}

	return nil
}
