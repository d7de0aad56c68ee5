package sheet

import (
	"fmt"
	"strings"
)

const (
	headerKey   = "key"
	headerValue = "value"
)

// Value is a metadata entry. It holds more than one string when value-only rows follow a key.
type Value []string

// IsList reports whether the key was given several values.
func (v Value) IsList() bool {
	return len(v) > 1
}

// String renders the value as template text.
func (v Value) String() string {
	return strings.Join(v, ", ")
}

// Metadata maps sheet keys to their values. It is shared by every group built from one grid.
type Metadata map[string]Value

// ParseKeyValue reads a key column and the value column next to it.
//
// A row with both cells sets the key. A row with only a value appends it to the last key set.
// A key without a value, or a value before any key, is dropped.
func ParseKeyValue(keys, values Column) (Metadata, error) {
	if keys.Header() != headerKey || values.Header() != headerValue {
		return nil, fmt.Errorf("%w: key column must be followed by a value column, got %q and %q",
			ErrMalformedSheet, keys.Cell(0), values.Cell(0))
	}

	md := Metadata{}
	lastKey := ""
	for i := 1; i < max(len(keys), len(values)); i++ {
		key, value := keys.Cell(i), values.Cell(i)
		switch {
		case key == "" && value != "" && lastKey != "":
			md[lastKey] = append(md[lastKey], value)
		case key != "" && value != "":
			lastKey = key
			md[key] = Value{value}
		}
	}
	return md, nil
}
