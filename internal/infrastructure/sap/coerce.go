package sap

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// YesNo is the Service Layer's boolean enumeration.
type YesNo string

const (
	Yes YesNo = "tYES"
	No  YesNo = "tNO"
)

// FromBool converts b to its YesNo token.
func FromBool(b bool) YesNo {
	if b {
		return Yes
	}
	return No
}

// Bool reports whether y is tYES. Unknown and empty tokens read as false.
func (y YesNo) Bool() bool {
	return y == Yes
}

// Number decodes a decimal sent either as a JSON number or as a numeric
// string. Empty strings and null decode to zero; anything else that does
// not parse is an error. It encodes as a bare JSON number.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d.
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" || s == "null" {
		n.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("sap: invalid number %s: %w", b, err)
	}
	n.Decimal = d
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// Int decodes an integer code sent either as a JSON number or a numeric
// string, with the same empty/null handling as Number.
type Int int64

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("sap: invalid integer %s: %w", b, err)
	}
	*i = Int(v)
	return nil
}

// NilIfEmpty returns nil for a blank string so that omitempty drops it
// from payloads, and a pointer to the trimmed value otherwise.
func NilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NilIfZero returns nil for zero so that omitempty drops it from payloads.
func NilIfZero(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
