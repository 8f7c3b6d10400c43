// codes.go provides business-code format validation and normalization for the
// reference hierarchy. Country and state codes are case-normalized to
// uppercase before the format check so clients may send either case; city
// codes are purely numeric and pass through unchanged.
package validation

import (
	"fmt"
	"regexp"
)

var (
	countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
	stateCodePattern   = regexp.MustCompile(`^[A-Z]{2}-[A-Z0-9]{1,3}$`)
	cityCodePattern    = regexp.MustCompile(`^[0-9]{6}$`)
)

// NormalizeCountryCode uppercases a country code and validates it as
// ISO 3166-1 alpha-2 (exactly two letters, e.g. "JP", "US").
func NormalizeCountryCode(code string) (string, error) {
	normalized := mapASCIIUpper(code)
	if !countryCodePattern.MatchString(normalized) {
		return "", fmt.Errorf("country code must be 2 letters (e.g. 'JP'), got %q", code)
	}
	return normalized, nil
}

// NormalizeStateCode uppercases a state code and validates it against the
// ISO 3166-2 shape: a 2-letter country prefix, a hyphen, and a 1-3 character
// alphanumeric subdivision code (e.g. "JP-13", "US-CA").
func NormalizeStateCode(code string) (string, error) {
	normalized := mapASCIIUpper(code)
	if !stateCodePattern.MatchString(normalized) {
		return "", fmt.Errorf("state code must be in ISO 3166-2 format (e.g. 'JP-13', 'US-CA'), got %q", code)
	}
	return normalized, nil
}

// ValidateCityCode validates a city code as a 6-digit local government code
// (JIS X 0402 style, e.g. "131016" for Minato-ku, Tokyo).
func ValidateCityCode(code string) error {
	if !cityCodePattern.MatchString(code) {
		return fmt.Errorf("city code must be a 6-digit number (e.g. '131016'), got %q", code)
	}
	return nil
}

// mapASCIIUpper uppercases ASCII letters only. Codes are ASCII by definition;
// strings.ToUpper's Unicode tables are unnecessary here and locale-dependent
// case folding (e.g. Turkish dotless i) would be wrong for ISO codes.
func mapASCIIUpper(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
