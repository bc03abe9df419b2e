// Package validate holds the pure input checks shared by the storefront
// client and the server handlers. All functions are side-effect free.
package validate

import (
	"fmt"
	"regexp"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.\S+$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// Email reports whether s looks like an email address. This is a
// permissive syntactic check (something@something.something), not a
// deliverability check.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// Phone reports whether s reduces to exactly 10 digits once all
// non-digit characters (spaces, dashes, parentheses) are stripped.
func Phone(s string) bool {
	return len(DigitsOnly(s)) == 10
}

// FormatPrice renders v as a rupee amount with two decimal places.
// NaN renders as "₹NaN"; the caller is expected to pass parsed numbers.
func FormatPrice(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}
