package structs

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidOptions = errors.New("options must be a JSON object or array")

var emptyOptions = json.RawMessage("[]")

// ProductOptions is the free-form options document of a product, stored as jsonb.
// Only objects and arrays are accepted; the content is otherwise opaque.
type ProductOptions struct {
	raw json.RawMessage
}

// ParseProductOptions parses form or API input. Blank input yields empty options.
func ParseProductOptions(s string) (ProductOptions, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProductOptions{}, nil
	}
	return newProductOptions([]byte(s))
}

func newProductOptions(b []byte) (ProductOptions, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ProductOptions{}, nil
	}
	if !json.Valid(b) {
		return ProductOptions{}, fmt.Errorf("invalid options JSON: %w", ErrInvalidOptions)
	}
	if b[0] != '{' && b[0] != '[' {
		return ProductOptions{}, ErrInvalidOptions
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, b); err != nil {
		return ProductOptions{}, fmt.Errorf("invalid options JSON: %w", err)
	}
	return ProductOptions{raw: compact.Bytes()}, nil
}

func (o ProductOptions) IsEmpty() bool {
	return len(o.raw) == 0
}

// Raw returns the stored document, or an empty array when none is set.
func (o ProductOptions) Raw() json.RawMessage {
	if o.IsEmpty() {
		return emptyOptions
	}
	return o.raw
}

// Indent renders the document for editing in a form.
func (o ProductOptions) Indent() string {
	if o.IsEmpty() {
		return ""
	}
	var out bytes.Buffer
	if err := json.Indent(&out, o.raw, "", "  "); err != nil {
		return string(o.raw)
	}
	return out.String()
}

func (o ProductOptions) String() string {
	return string(o.Raw())
}

func (o ProductOptions) MarshalJSON() ([]byte, error) {
	return o.Raw(), nil
}

func (o *ProductOptions) UnmarshalJSON(b []byte) error {
	parsed, err := newProductOptions(b)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Value stores empty options as NULL.
func (o ProductOptions) Value() (driver.Value, error) {
	if o.IsEmpty() {
		return nil, nil
	}
	return string(o.raw), nil
}

func (o *ProductOptions) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*o = ProductOptions{}
		return nil
	case []byte:
		o.raw = append(json.RawMessage(nil), bytes.TrimSpace(v)...)
	case string:
		o.raw = json.RawMessage(strings.TrimSpace(v))
	default:
		return fmt.Errorf("cannot scan %T into ProductOptions", src)
	}
	if bytes.Equal(o.raw, []byte("null")) {
		o.raw = nil
	}
	return nil
}
