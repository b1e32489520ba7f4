// Package document holds JSON descriptors as ordered trees, so that a
// read-modify-write cycle keeps the key order authors wrote.
//
// Values in a tree are one of: *Object, []interface{}, string, json.Number,
// bool, nil. Values set programmatically may also be any type that json can
// encode (e.g. int).
package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/portworx/dcosdev/pkg/errors"
)

var (
	// ErrInvalidJSON is returned when a descriptor is not valid JSON
	ErrInvalidJSON = errors.New("invalid JSON document")

	// ErrNotAnObject is returned when a descriptor is valid JSON but not an object
	ErrNotAnObject = errors.New("JSON document is not an object")

	// ErrPath is returned when a path does not lead to the expected kind of value
	ErrPath = errors.New("invalid document path")
)

var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Member is a key/value pair of an Object
type Member struct {
	Key   string
	Value interface{}
}

// Object is a JSON object which remembers the insertion order of its keys
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject builds an empty object
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Len is the number of keys
func (o *Object) Len() int {
	return len(o.members)
}

// Keys in document order
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.members))
	for _, m := range o.members {
		keys = append(keys, m.Key)
	}
	return keys
}

// Members in document order. The returned slice must not be modified.
func (o *Object) Members() []Member {
	return o.members
}

// Get a value
func (o *Object) Get(key string) (interface{}, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// GetString gets a string value
func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetObject gets a nested object
func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	obj, ok := v.(*Object)
	return obj, ok
}

// Set a value. An existing key keeps its position, a new key is appended.
func (o *Object) Set(key string, value interface{}) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

// Delete a key, reporting whether it was present
func (o *Object) Delete(key string) bool {
	i, ok := o.index[key]
	if !ok {
		return false
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	delete(o.index, key)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Key] = j
	}
	return true
}

// Clone makes a deep copy
func (o *Object) Clone() *Object {
	c := NewObject()
	for _, m := range o.members {
		c.Set(m.Key, cloneValue(m.Value))
	}
	return c
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []interface{}:
		c := make([]interface{}, len(t))
		for i := range t {
			c[i] = cloneValue(t[i])
		}
		return c
	default:
		return t
	}
}

// SetPath sets a value under a dotted list of keys, creating intermediate objects.
// It fails when an intermediate key holds something other than an object.
func (o *Object) SetPath(value interface{}, keys ...string) error {
	if len(keys) == 0 {
		return ErrPath.Wrapf("empty path")
	}
	current := o
	for i, k := range keys[:len(keys)-1] {
		v, ok := current.Get(k)
		if !ok {
			next := NewObject()
			current.Set(k, next)
			current = next
			continue
		}
		next, ok := v.(*Object)
		if !ok {
			return ErrPath.Wrapf("%s is not an object", strings.Join(keys[:i+1], "."))
		}
		current = next
	}
	current.Set(keys[len(keys)-1], value)
	return nil
}

// MarshalJSON encodes the object compactly, in key order
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, o, "", 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping key order
func (o *Object) UnmarshalJSON(data []byte) error {
	obj, err := ParseObject(data)
	if err != nil {
		return err
	}
	*o = *obj
	return nil
}

// Parse any JSON document
func Parse(data []byte) (interface{}, error) {
	if !jsonAPI.Valid(data) {
		return nil, ErrInvalidJSON
	}
	iter := jsoniter.ParseBytes(jsonAPI, data)
	v := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, ErrInvalidJSON.Wrap(iter.Error)
	}
	if iter.WhatIsNext() != jsoniter.InvalidValue {
		return nil, ErrInvalidJSON.Wrapf("trailing data after JSON value")
	}
	return v, nil
}

// ParseObject parses a JSON document which must be an object
func ParseObject(data []byte) (*Object, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotAnObject.Wrapf("got %T", v)
	}
	return obj, nil
}

func readValue(iter *jsoniter.Iterator) interface{} {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := NewObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.Set(key, readValue(it))
			return it.Error == nil
		})
		return obj
	case jsoniter.ArrayValue:
		arr := make([]interface{}, 0)
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr = append(arr, readValue(it))
			return it.Error == nil
		})
		return arr
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return iter.ReadNumber()
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	default:
		iter.ReportError("readValue", "unexpected token")
		return nil
	}
}

// Encode a value with 4 spaces indentation, the layout the package repository tooling uses
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, "    ", 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v interface{}, indent string, depth int) error {
	newline := func(d int) {
		if indent == "" {
			return
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(indent, d))
	}

	switch t := v.(type) {
	case *Object:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, m := range t.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			key, err := jsonAPI.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			if err := encodeValue(buf, m.Value, indent, depth+1); err != nil {
				return fmt.Errorf("key %q: %w", m.Key, err)
			}
		}
		newline(depth)
		buf.WriteByte('}')
	case []interface{}:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			if err := encodeValue(buf, e, indent, depth+1); err != nil {
				return err
			}
		}
		newline(depth)
		buf.WriteByte(']')
	default:
		b, err := jsonAPI.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
