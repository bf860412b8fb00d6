package snekfetch

import (
	"net/http"
	"strings"
)

type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered, case-insensitive header set. Lookups fold case; the
// casing of the most recent Set is what goes on the wire.
type Header struct {
	keys   []string
	fields map[string]HeaderField
}

func NewHeader() *Header {
	return &Header{fields: make(map[string]HeaderField)}
}

func (h *Header) Set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := h.fields[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.fields[key] = HeaderField{Name: name, Value: value}
}

func (h *Header) Get(name string) string {
	return h.fields[strings.ToLower(name)].Value
}

func (h *Header) Has(name string) bool {
	_, ok := h.fields[strings.ToLower(name)]
	return ok
}

func (h *Header) Del(name string) {
	key := strings.ToLower(name)
	if _, ok := h.fields[key]; !ok {
		return
	}
	delete(h.fields, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

func (h *Header) Len() int {
	return len(h.keys)
}

// Fields returns the headers in insertion order.
func (h *Header) Fields() []HeaderField {
	out := make([]HeaderField, 0, len(h.keys))
	for _, k := range h.keys {
		out = append(out, h.fields[k])
	}
	return out
}

func (h *Header) Clone() *Header {
	c := &Header{
		keys:   make([]string, len(h.keys)),
		fields: make(map[string]HeaderField, len(h.fields)),
	}
	copy(c.keys, h.keys)
	for k, f := range h.fields {
		c.fields[k] = f
	}
	return c
}

// transportManaged lists the headers net/http looks up by canonical key.
// They are sent canonicalized or the transport would add its own copy.
var transportManaged = map[string]bool{
	"host":              true,
	"user-agent":        true,
	"content-length":    true,
	"transfer-encoding": true,
	"accept-encoding":   true,
}

// wire converts h to an http.Header keyed by the caller's casing. Assigning
// the map directly bypasses canonicalization.
func (h *Header) wire() http.Header {
	out := make(http.Header, len(h.keys))
	for _, k := range h.keys {
		f := h.fields[k]
		name := f.Name
		if transportManaged[k] {
			name = http.CanonicalHeaderKey(name)
		}
		out[name] = []string{f.Value}
	}
	return out
}
