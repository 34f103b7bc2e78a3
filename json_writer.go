package fiscal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// objectWriter writes a JSON object keeping the order of its fields, which
// encoding/json does not for maps. Its zero value is an empty object.
type objectWriter struct {
	buf bytes.Buffer
	err error
}

// Field writes key and the JSON encoding of value.
func (w *objectWriter) Field(key string, value any) *objectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode field %q: %w", key, err)
		return w
	}
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(data)
	return w
}

// Optional writes the field unless value is the zero value of its type.
func (w *objectWriter) Optional(key string, value any) *objectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Field(key, value)
}

// MarshalJSON returns the object written so far.
func (w *objectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
