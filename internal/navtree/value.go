package navtree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ValueKind tags a decoded JSON value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a decoded JSON document. Objects keep their key order, which the
// section rail depends on.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Num    float64
	Str    string
	Items  []Value
	Keys   []string
	Fields map[string]Value
}

var errUnexpectedDelim = errors.New("unexpected delimiter")

// Decode parses data into a Value.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("decode nav payload: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data")
		}
		return Value{}, fmt.Errorf("decode nav payload: %w", err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("%w %q", errUnexpectedDelim, t)
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case float64:
		return Value{Kind: KindNumber, Num: t}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return Value{Kind: KindNull}, nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindObject, Fields: map[string]Value{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		field, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		if _, dup := v.Fields[key]; !dup {
			v.Keys = append(v.Keys, key)
		}
		v.Fields[key] = field
	}
	if err := expectDelim(dec, '}'); err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindArray}
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.Items = append(v.Items, item)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return Value{}, err
	}
	return v, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: want %q, got %v", errUnexpectedDelim, want, tok)
	}
	return nil
}

// Get returns the named field of an object.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	field, ok := v.Fields[key]
	return field, ok
}

// First returns the first of keys present with a non-null value.
func (v Value) First(keys ...string) (Value, bool) {
	for _, key := range keys {
		if field, ok := v.Get(key); ok && field.Kind != KindNull {
			return field, true
		}
	}
	return Value{}, false
}

// Text coerces scalars to a trimmed string. Containers and null yield "".
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// Number coerces numbers and numeric strings.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Truthy follows the loose boolean conventions found in nav payloads.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "1", "true", "yes", "on":
			return true
		}
	}
	return false
}
