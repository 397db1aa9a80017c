package registry

import (
	"fmt"
	"unicode"

	"github.com/eppproxy/eppproxy/internal/errors"
)

// ValidateDomainName enforces spec.md §4.3: domain names must be non-empty.
func ValidateDomainName(name string) error {
	if name == "" {
		return errors.Err("domain name must not be empty")
	}
	return nil
}

// ValidateContactID enforces spec.md §4.3: contact ids are 3-16 printable
// characters.
func ValidateContactID(id string) error {
	if n := len([]rune(id)); n < 3 || n > 16 {
		return errors.Err(fmt.Sprintf("contact id %q must be 3-16 characters", id))
	}
	for _, r := range id {
		if !unicode.IsPrint(r) {
			return errors.Err(fmt.Sprintf("contact id %q contains non-printable characters", id))
		}
	}
	return nil
}

// ValidateAuthInfo enforces spec.md §4.3: authorisation passwords are 6-16
// characters.
func ValidateAuthInfo(pw string) error {
	if n := len([]rune(pw)); n < 6 || n > 16 {
		return errors.Err("authInfo password must be 6-16 characters")
	}
	return nil
}

// ClampPeriod clamps a registration/renewal period to [1, 99] years for
// serialisation, per spec.md §4.3.
func ClampPeriod(years int) int {
	if years < 1 {
		return 1
	}
	if years > 99 {
		return 99
	}
	return years
}
