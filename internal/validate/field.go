// Package validate provides input validation utilities for ElectroGest,
// ensuring data integrity across configuration processing, API handlers,
// and the business services.
//
// Implements validation rules for network addresses, login identifiers, and
// Brazilian registry documents (CPF, CEP, phone numbers). Prevents malformed
// data from reaching the database or causing inconsistent records.
//
// VALIDATION COVERAGE:
//   - Generic fields: validator-library tag checks for single values
//   - Network: bind address parsing for the HTTP server
//   - Logins: format validation for user account identifiers
//   - Documents: CPF check-digit validation and display formatting
//
// Used throughout CLI tools, API handlers, and services to keep input
// validation consistent across all system entry points.
package validate

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
}

// NetworkAddress represents a validated network address with host and port
// components for the dashboard HTTP endpoint.
type NetworkAddress struct {
	Host string `validate:"required,ip"`
	Port int    `validate:"min=0,max=65535"`
}

// ParseBindAddress parses and validates a "host:port" bind address string.
// Returns the validated components or an error describing what is malformed.
//
// Example: ParseBindAddress("127.0.0.1:8501")
func ParseBindAddress(address string) (*NetworkAddress, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address format %q (expected host:port): %w", address, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	netAddr := &NetworkAddress{Host: host, Port: port}
	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", address, err)
	}

	return netAddr, nil
}

// ValidateField validates individual values against specified validation rules
// using the go-playground/validator library. Provides flexible validation for
// single fields without requiring struct definitions.
//
// Supports all built-in validation tags including numeric ranges, string
// patterns, email format, and required field validation.
//
// Example: ValidateField(price, "required,gt=0")
func ValidateField(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// ValidateStruct validates a struct against its field validation tags.
// Used by the services to check inputs regardless of how they arrived,
// beyond what HTTP request binding covers.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidatePortRange validates that a port number is within the valid range (1-65535).
// Rejects port 0 (OS-assigned) since the launcher needs a predictable address
// for its readiness probe.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
// Ensures timeout configurations don't cause infinite waits or immediate failures.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// LoginFormat validates user login identifiers against account naming rules.
// Ensures logins contain only [a-z0-9._-] and don't start/end with separators.
//
// Keeps logins safe for audit log lines, file names, and case-insensitive
// lookup without surprises.
func LoginFormat(login string) error {
	if login == "" {
		return fmt.Errorf("login cannot be empty")
	}

	if len(login) < 3 || len(login) > 32 {
		return fmt.Errorf("login '%s' must be between 3 and 32 characters", login)
	}

	for _, r := range login {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("login '%s' must contain only lowercase letters [a-z], numbers [0-9], dots (.), hyphens (-), and underscores (_)", login)
		}
	}

	first, last := login[0], login[len(login)-1]
	if !isLowerAlnum(first) || !isLowerAlnum(last) {
		return fmt.Errorf("login '%s' cannot start or end with a separator", login)
	}

	return nil
}

func isLowerAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// ValidateAccessLevel validates a user access level string against the
// canonical set used by the authorization layer.
func ValidateAccessLevel(level string) error {
	switch strings.ToUpper(level) {
	case "ADMIN", "OPERADOR", "VISUALIZADOR":
		return nil
	}
	return fmt.Errorf("invalid access level: %s (must be ADMIN, OPERADOR, or VISUALIZADOR)", level)
}
