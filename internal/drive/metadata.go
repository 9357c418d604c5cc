package drive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Kind identifies which JSON type a Value holds.
type Kind int

// JSON value kinds. The zero Value is KindNull.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON value of any kind. Numbers keep their literal text so
// metadata round-trips through the client without precision loss.
type Value struct {
	kind Kind
	b    bool
	n    json.Number
	s    string
	arr  []Value
	obj  Metadata
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number wraps a JSON number literal.
func Number(n json.Number) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer.
func Int(i int64) Value { return Number(json.Number(strconv.FormatInt(i, 10))) }

// Array wraps a list of values.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Object wraps a nested mapping.
func Object(m Metadata) Value { return Value{kind: KindObject, obj: m} }

// Kind reports the JSON type held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and true if v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string and true if v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsNumber returns the number literal and true if v is a number.
func (v Value) AsNumber() (json.Number, bool) { return v.n, v.kind == KindNumber }

// AsArray returns the elements and true if v is an array.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the mapping and true if v is an object.
func (v Value) AsObject() (Metadata, bool) { return v.obj, v.kind == KindObject }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.n == "" {
			return []byte("0"), nil
		}

		return []byte(v.n), nil
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}

		return json.Marshal(v.arr)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}

		return json.Marshal(map[string]Value(v.obj))
	default:
		return nil, fmt.Errorf("drive: cannot marshal value of kind %s", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("drive: empty JSON value")
	}

	switch data[0] {
	case 'n':
		*v = Null()

		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}

		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*v = String(s)
	case '[':
		var arr []Value
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}

		*v = Array(arr...)
	case '{':
		var m map[string]Value
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}

		*v = Object(m)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()

		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return err
		}

		*v = Number(n)
	}

	return nil
}

// Well-known Drive v2 file resource keys.
const (
	keyID          = "id"
	keyTitle       = "title"
	keyMimeType    = "mimeType"
	keyDownloadURL = "downloadUrl"
	keyFileSize    = "fileSize"
	keyItems       = "items"
)

// Metadata is a Drive file resource (or any API response object) as an
// untyped mapping. The client passes it through verbatim; the accessors
// below only read the handful of keys the protocol depends on.
type Metadata map[string]Value

// ParseMetadata decodes a JSON object into Metadata.
func ParseMetadata(data []byte) (Metadata, error) {
	var m map[string]Value
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	if m == nil {
		return nil, fmt.Errorf("drive: expected a JSON object, got null")
	}

	return m, nil
}

// Str returns the string stored under key, or "" if absent or not a string.
func (m Metadata) Str(key string) string {
	s, _ := m[key].AsString()
	return s
}

// ID returns the "id" field.
func (m Metadata) ID() string { return m.Str(keyID) }

// Title returns the "title" field.
func (m Metadata) Title() string { return m.Str(keyTitle) }

// MimeType returns the "mimeType" field.
func (m Metadata) MimeType() string { return m.Str(keyMimeType) }

// DownloadURL returns the API-provided "downloadUrl" field.
func (m Metadata) DownloadURL() string { return m.Str(keyDownloadURL) }

// FileSize returns the "fileSize" field, which Drive v2 encodes as a string.
// Returns -1 when absent or unparseable.
func (m Metadata) FileSize() int64 {
	v := m[keyFileSize]

	var raw string

	switch v.Kind() {
	case KindString:
		raw = v.s
	case KindNumber:
		raw = v.n.String()
	default:
		return -1
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return -1
	}

	return n
}

// Items returns the object elements of the "items" array of a listing
// response. Non-object elements are skipped.
func (m Metadata) Items() []Metadata {
	arr, ok := m[keyItems].AsArray()
	if !ok {
		return nil
	}

	items := make([]Metadata, 0, len(arr))

	for _, v := range arr {
		if obj, isObj := v.AsObject(); isObj {
			items = append(items, obj)
		}
	}

	return items
}

// Clone returns a shallow copy of m. Nested values are shared.
func (m Metadata) Clone() Metadata {
	return maps.Clone(m)
}
