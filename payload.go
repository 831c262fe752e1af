package viewset

import (
	"errors"
	"sync"

	"github.com/tidwall/gjson"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrMalformedPayload = errors.New("request body is not a JSON object")
)

///////////////////////////////////////////////////////////////////////////////
// Payload
///////////////////////////////////////////////////////////////////////////////

// Payload wraps a raw JSON request body. Parsing is lazy and cached, so a
// serializer re-validating the same payload never re-parses it.
type Payload struct {
	raw []byte

	parsed    gjson.Result
	parseErr  error
	parseOnce sync.Once
}

// NewPayload wraps raw JSON body bytes.
func NewPayload(raw []byte) *Payload {
	return &Payload{raw: raw}
}

// Bytes returns the raw body bytes.
func (p *Payload) Bytes() []byte {
	return p.raw
}

// root parses the body once and returns the top-level result. Anything that
// is not a JSON object is rejected; payloads are field mappings by contract.
func (p *Payload) root() (gjson.Result, error) {
	p.parseOnce.Do(func() {
		if !gjson.ValidBytes(p.raw) {
			p.parseErr = ErrMalformedPayload
			return
		}
		result := gjson.ParseBytes(p.raw)
		if !result.IsObject() {
			p.parseErr = ErrMalformedPayload
			return
		}
		p.parsed = result
	})
	return p.parsed, p.parseErr
}

// Get returns the raw value for a top-level field. The zero gjson.Result
// (Exists() == false) is returned for absent fields and malformed bodies.
func (p *Payload) Get(name string) gjson.Result {
	root, err := p.root()
	if err != nil {
		return gjson.Result{}
	}
	return root.Get(escapePathKey(name))
}

// Valid reports whether the body parsed as a JSON object.
func (p *Payload) Valid() bool {
	_, err := p.root()
	return err == nil
}

// escapePathKey escapes gjson path syntax characters in a field name, so
// field names like "a.b" address the literal key instead of a nested path.
func escapePathKey(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '.', '*', '?', '\\', '|', '@', '#':
			out = append(out, '\\')
		}
		out = append(out, name[i])
	}
	return string(out)
}
