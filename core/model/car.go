package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject is returned when a record in the collection is not a JSON object.
var ErrNotObject = errors.New("record is not an object")

// Car is one rentable vehicle. Fields are kept as raw JSON in their original
// order so that anything the updater does not touch is written back as read.
type Car struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewCar returns an empty record.
func NewCar() Car {
	return Car{fields: orderedmap.New[string, json.RawMessage]()}
}

// UnmarshalJSON decodes a JSON object, keeping key order. Duplicate keys keep
// their first position and the last value.
func (c *Car) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: found %s", ErrNotObject, describe(trimmed))
	}
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	c.fields = fields
	return nil
}

// MarshalJSON encodes the record with its fields in insertion order. Values
// are emitted as stored, except that escaped strings are rewritten with
// non-ASCII and HTML characters written literally.
func (c Car) MarshalJSON() ([]byte, error) {
	if c.fields == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for pair := c.fields.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		buf.Write(literalStrings(pair.Value))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Len returns the number of fields.
func (c Car) Len() int {
	if c.fields == nil {
		return 0
	}
	return c.fields.Len()
}

// Keys returns field names in order.
func (c Car) Keys() []string {
	if c.fields == nil {
		return nil
	}
	keys := make([]string, 0, c.fields.Len())
	for pair := c.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Field returns the raw JSON value stored under key.
func (c Car) Field(key string) (json.RawMessage, bool) {
	if c.fields == nil {
		return nil, false
	}
	return c.fields.Get(key)
}

// Set replaces the value stored under key. A new key is appended at the end.
func (c *Car) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if c.fields == nil {
		c.fields = orderedmap.New[string, json.RawMessage]()
	}
	c.fields.Set(key, raw)
	return nil
}

// SetAvailability replaces the availability window as a whole.
func (c *Car) SetAvailability(a Availability) error {
	return c.Set(AvailabilityField, a)
}

// Availability decodes the current window. The boolean is false when the
// record carries no availability field.
func (c Car) Availability() (Availability, bool, error) {
	raw, ok := c.Field(AvailabilityField)
	if !ok {
		return Availability{}, false, nil
	}
	var a Availability
	if err := json.Unmarshal(raw, &a); err != nil {
		return Availability{}, true, fmt.Errorf("decode availability: %w", err)
	}
	return a, true, nil
}

// ID renders the id field as text. Numbers are kept in their literal form.
func (c Car) ID() string {
	return c.Text("id")
}

// Text renders a scalar field as text, or "" when absent or not a scalar.
func (c Car) Text(key string) string {
	raw, ok := c.Field(key)
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(raw)
	}
}

func describe(b []byte) string {
	if len(b) == 0 {
		return "empty value"
	}
	switch b[0] {
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}
