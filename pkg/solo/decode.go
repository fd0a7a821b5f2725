package solo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed JSON")
var ErrMissingField = errors.New("missing required field")
var ErrUnknownType = errors.New("unknown type")
var ErrVectorLength = errors.New("wrong vector length")

// DecodeError is returned for any JSON record that doesn't match our schema
type DecodeError struct {
	Record string // eg "capture", "annotation"
	Field  string // Path of the offending field, eg "captures[0].annotations[1].values[3].origin"
	Tag    string // Value of @type, if we got that far
	Err    error
}

func (e *DecodeError) Error() string {
	s := "Failed to decode " + e.Record
	if e.Tag != "" {
		s += fmt.Sprintf(" (type '%v')", e.Tag)
	}
	if e.Field != "" {
		s += fmt.Sprintf(", field '%v'", e.Field)
	}
	return s + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

const typeField = "@type"

// object maps the fields of a JSON object onto a schema, one field at a time.
// The first error sticks, and all subsequent reads return zero values.
type object struct {
	record string
	path   string
	tag    string
	fields map[string]json.RawMessage
	err    error
}

func parseObject(raw []byte, record, path string) (*object, error) {
	o := &object{record: record, path: path}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, o.newError("", fmt.Errorf("%w: %v", ErrMalformed, err))
	}
	if fields == nil {
		return nil, o.newError("", fmt.Errorf("%w: expected an object", ErrMalformed))
	}
	o.fields = fields
	return o, nil
}

func (o *object) fieldPath(name string) string {
	if o.path == "" {
		return name
	}
	if name == "" {
		return o.path
	}
	return o.path + "." + name
}

func (o *object) newError(field string, err error) *DecodeError {
	return &DecodeError{
		Record: o.record,
		Field:  o.fieldPath(field),
		Tag:    o.tag,
		Err:    err,
	}
}

func (o *object) fail(field string, err error) {
	if o.err == nil {
		o.err = o.newError(field, err)
	}
}

// setErr keeps an error produced by a nested record
func (o *object) setErr(err error) {
	if o.err == nil && err != nil {
		o.err = err
	}
}

// readTag reads the type tag, which must be a string
func (o *object) readTag() (string, error) {
	raw, ok := o.fields[typeField]
	if !ok || isNull(raw) {
		return "", o.newError(typeField, ErrMissingField)
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", o.newError(typeField, fmt.Errorf("%w: type tag is not a string", ErrMalformed))
	}
	o.tag = tag
	return tag, nil
}

func (o *object) raw(name string, required bool) (json.RawMessage, bool) {
	if o.err != nil {
		return nil, false
	}
	v, ok := o.fields[name]
	if !ok || isNull(v) {
		if required {
			o.fail(name, ErrMissingField)
		}
		return nil, false
	}
	return v, true
}

// get reads a plain value (string, number, array of numbers, etc)
func get[T any](o *object, name string, required bool) (v T) {
	raw, ok := o.raw(name, required)
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		o.fail(name, fmt.Errorf("%w: %v", ErrMalformed, err))
	}
	return
}

// vector reads a fixed length array of numbers into dst
func vector(o *object, name string, dst []float64, required bool) {
	v := get[[]float64](o, name, required)
	if o.err != nil || v == nil {
		return
	}
	if len(v) != len(dst) {
		o.fail(name, fmt.Errorf("%w: expected %d components, got %d", ErrVectorLength, len(dst), len(v)))
		return
	}
	copy(dst, v)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%v[%d]", base, i)
}
