package headers

import (
	"fmt"
	"strings"
)

// Field is one header line. Name keeps the case it was set with.
type Field struct {
	Name  string
	Value string
}

func (f Field) String() string {
	return fmt.Sprintf("%s: %s", f.Name, f.Value)
}

// Headers is an ordered header list. Lookups are case insensitive; output order
// is insertion order.
type Headers struct {
	fields []Field
}

func NewHeaders() *Headers {
	return &Headers{}
}

// Get returns the first value for a header
func (h *Headers) Get(key string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, key) {
			return f.Value, true
		}
	}
	return "", false
}

// All returns a copy of the fields in write order.
func (h *Headers) All() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// Set replaces the value for a header, keeping its position if present.
func (h *Headers) Set(key, value string) {
	kept := h.fields[:0]
	replaced := false
	for _, f := range h.fields {
		if !strings.EqualFold(f.Name, key) {
			kept = append(kept, f)
			continue
		}
		if !replaced {
			kept = append(kept, Field{Name: key, Value: value})
			replaced = true
		}
	}
	h.fields = kept
	if !replaced {
		h.fields = append(h.fields, Field{Name: key, Value: value})
	}
}
