package validator

import (
	"errors"
	"strings"
)

// ValidateEmail checks basic address shape. Whistleblower accounts may live on
// any domain, including personal mail providers, so no domain policy applies.
func ValidateEmail(email string) error {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("invalid email format")
	}

	if !strings.Contains(parts[1], ".") {
		return errors.New("invalid email domain")
	}

	return nil
}
