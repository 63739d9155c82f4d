// Package telephony wraps the external real-time media/SIP platform behind
// a thin Adapter interface, plus the destination-normalization heuristics
// shared by the Campaign Runtime and the Inbound Call Router.
package telephony

import (
	"regexp"
	"strings"

	"github.com/outboundhq/dialer/pkg/apperror"
)

var digitsOnly = regexp.MustCompile(`[^\d+]`)

// NormalizeE164 applies the following destination-normalization
// heuristics:
//
//  1. If the number already has a "+" prefix, accept it as-is.
//  2. Else if it begins with "91" and is at least 12 digits, prepend "+".
//  3. Else if it is exactly 10 digits, assume NANP and prepend "+1".
//  4. Else, if a defaultCountryCode is configured, prepend it.
//  5. Otherwise the input is ambiguous: fail closed with a Validation
//     error rather than silently guessing.
func NormalizeE164(raw, defaultCountryCode string) (string, error) {
	cleaned := digitsOnly.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return "", apperror.ErrValidation.WithMessage("phone number is empty")
	}

	if strings.HasPrefix(cleaned, "+") {
		return cleaned, nil
	}
	if strings.HasPrefix(cleaned, "91") && len(cleaned) >= 12 {
		return "+" + cleaned, nil
	}
	if len(cleaned) == 10 {
		return "+1" + cleaned, nil
	}
	if defaultCountryCode != "" {
		return defaultCountryCode + cleaned, nil
	}

	return "", apperror.ErrValidation.WithMessage(
		"phone number " + raw + " is ambiguous: no leading '+', not a 91-prefixed or 10-digit NANP number, and no DEFAULT_COUNTRY_CODE configured")
}
