package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CoercionError reports an input value that could not be read as a number.
type CoercionError struct {
	Value string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("value %s is not numeric", e.Value)
}

// Number accepts a JSON number or a numeric string. An empty string decodes to a
// Number with Valid == false so callers can treat it as "not supplied".
type Number struct {
	Value float64
	Valid bool
}

func NewNumber(v float64) *Number {
	return &Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = Number{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &CoercionError{Value: string(data)}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = Number{}
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return &CoercionError{Value: strconv.Quote(s)}
		}
		*n = Number{Value: f, Valid: true}
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return &CoercionError{Value: string(data)}
	}
	*n = Number{Value: f, Valid: true}
	return nil
}

// UnmarshalYAML applies the same rules to seed files: plain and quoted scalars both
// parse, an empty scalar or null is absent.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return &CoercionError{Value: value.Value}
	}
	if value.Tag == "!!null" {
		*n = Number{}
		return nil
	}
	s := strings.TrimSpace(value.Value)
	if s == "" {
		*n = Number{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return &CoercionError{Value: strconv.Quote(s)}
	}
	*n = Number{Value: f, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Present reports whether the number was supplied with a usable value.
func (n *Number) Present() bool {
	return n != nil && n.Valid
}

func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return n.Value
}

// Int truncates toward zero.
func (n *Number) Int() int {
	if n == nil {
		return 0
	}
	return int(math.Trunc(n.Value))
}
