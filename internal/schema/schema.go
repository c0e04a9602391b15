// Package schema checks the structure of decoded JSON documents against small declarative schemas.
//
// A [Schema] names the expected JSON type of a value and, for objects, the required fields and per-field schemas,
// and for arrays, the schema every item must satisfy. [Validate] walks a document produced by [Decode]
// and reports the first violation as a [shared.Error] of kind [shared.ErrSchema] whose Path is a JSON Pointer.
//
// Validation is structural only. Cross references between entities are the catalog's job.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/mixtape/internal/shared"
)

// Type is a JSON value type name.
type Type string

const (
	Object  Type = "object"
	Array   Type = "array"
	String  Type = "string"
	Number  Type = "number"
	Boolean Type = "boolean"
	Null    Type = "null"
)

// Schema describes the expected shape of one JSON value.
//
// An empty Type accepts any value. Properties not listed are ignored; listed properties are checked only when present
// unless also named in Required.
type Schema struct {
	Type       Type
	Required   []string
	Properties map[string]*Schema
	Items      *Schema
}

// Decode reads exactly one JSON value from r into generic form (map[string]any, []any, string, [json.Number], bool, nil).
//
// Malformed input is reported as a schema error so callers see one failure kind for every unusable document.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, shared.SchemaError("", "empty document")
		}
		return nil, shared.SchemaError("", "malformed JSON: %v", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, shared.SchemaError("", "unexpected data after the top-level value")
	}

	return v, nil
}

// DecodeBytes is [Decode] over an in-memory document.
func DecodeBytes(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

// Validate reports the first place doc departs from s.
//
// Required fields are checked in declaration order before any property is descended into; properties are visited in
// name order and array items in index order, so the reported violation is deterministic.
func Validate(doc any, s *Schema) error {
	return validate(doc, s, "")
}

func validate(v any, s *Schema, path string) error {
	if s == nil {
		return nil
	}

	got := TypeOf(v)
	if s.Type != "" && got != s.Type {
		return shared.SchemaError(path, "expected %s, got %s", s.Type, got)
	}

	switch got {
	case Object:
		obj := v.(map[string]any)
		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				return shared.SchemaError(path, "missing required field %q", name)
			}
		}

		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			field, ok := obj[name]
			if !ok {
				continue
			}
			if err := validate(field, s.Properties[name], path+"/"+escape(name)); err != nil {
				return err
			}
		}
	case Array:
		for i, item := range v.([]any) {
			if err := validate(item, s.Items, path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}

	return nil
}

// TypeOf names the JSON type of a decoded value.
func TypeOf(v any) Type {
	switch v.(type) {
	case nil:
		return Null
	case bool:
		return Boolean
	case string:
		return String
	case json.Number, float64, float32, int, int64:
		return Number
	case []any:
		return Array
	case map[string]any:
		return Object
	default:
		return Type(fmt.Sprintf("%T", v))
	}
}

// escape encodes a property name as a JSON Pointer reference token.
func escape(name string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(name)
}
