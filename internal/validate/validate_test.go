package validate

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.c", true},
		{"user@example.com", true},
		{"first.last@shop.example.co.in", true},
		{"", false},
		{"plainaddress", false},
		{"no-at-sign.com", false},
		{"missing-domain@", false},
		{"no-dot-after-at@example", false},
		{"spaces in@example.com", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.email), "Email(%q)", tt.email)
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"5551234567", true},
		{"(555) 123-4567", true},
		{"555-123-4567", true},
		{"555 123 4567", true},
		{"555-123-456", false},  // 9 digits
		{"55512345678", false},  // 11 digits
		{"", false},
		{"abcdefghij", false},
		{"+91 98765 43210", false}, // country code pushes it to 12
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Phone(tt.phone), "Phone(%q)", tt.phone)
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5551234567", DigitsOnly("(555) 123-4567"))
	assert.Equal(t, "", DigitsOnly("no digits here"))
	assert.Equal(t, "42", DigitsOnly("4-2"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹0.00", FormatPrice(0))
	assert.Equal(t, "₹5.00", FormatPrice(5))
	assert.Equal(t, "₹19.99", FormatPrice(19.99))
	assert.Equal(t, "₹1234.50", FormatPrice(1234.5))
	assert.Equal(t, "₹NaN", FormatPrice(math.NaN()))
}

// Formatting the numeric part of an already-formatted price must yield
// the same string as formatting the original value.
func TestFormatPrice_Idempotent(t *testing.T) {
	for _, v := range []float64{0, 0.005, 1, 2.5, 19.99, 1234.56, 99999.994} {
		formatted := FormatPrice(v)
		numeric, err := strconv.ParseFloat(strings.TrimPrefix(formatted, "₹"), 64)
		assert.NoError(t, err)
		assert.Equal(t, formatted, FormatPrice(numeric), "v=%v", v)
	}
}
