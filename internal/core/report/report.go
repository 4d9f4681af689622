// Package report is a read-only view over the decoded report.json tree
// Values keep their JSON shape: map[string]any, []any, string, json.Number, bool, nil
// Paths are dotted keys from the root, eg "clientInfo.systemInfo.clientID"
package report

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	perr "crashrelay/internal/platform/errors"
)

// Report wraps the root object of a crash report
type Report struct {
	root map[string]any
}

// Decode parses a report.json payload; the root must be a JSON object
func Decode(r io.Reader) (Report, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Report{}, perr.Wrap(err, perr.ErrorCodeJSON, "report.json is not valid JSON")
	}
	if dec.More() {
		return Report{}, perr.JSONErrf("report.json has trailing data")
	}
	root, ok := v.(map[string]any)
	if !ok {
		return Report{}, perr.JSONErrf("report.json root must be an object")
	}
	return Report{root: root}, nil
}

// DecodeBytes is Decode over an in-memory payload
func DecodeBytes(b []byte) (Report, error) { return Decode(bytes.NewReader(b)) }

// FromMap wraps an already decoded tree
func FromMap(m map[string]any) Report { return Report{root: m} }

// Lookup walks path and reports whether it resolved
// A key present with a null value resolves (nil, true)
// Walking through a non-object yields (nil, false)
func (r Report) Lookup(path string) (any, bool) {
	if r.root == nil {
		return nil, false
	}
	var cur any = r.root
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether path resolves
func (r Report) Has(path string) bool {
	_, ok := r.Lookup(path)
	return ok
}

// Value returns the value at a required path
func (r Report) Value(path string) (any, error) {
	v, ok := r.Lookup(path)
	if !ok {
		return nil, perr.MissingField(path)
	}
	return v, nil
}

// String returns the required value at path rendered as text
func (r Report) String(path string) (string, error) {
	v, err := r.Value(path)
	if err != nil {
		return "", err
	}
	return Text(v), nil
}

// MayString returns the value at path as text, or def when absent
func (r Report) MayString(path, def string) string {
	v, ok := r.Lookup(path)
	if !ok {
		return def
	}
	return Text(v)
}

// List returns the array at path; absent, null or non-array values give nil
func (r Report) List(path string) []any {
	v, ok := r.Lookup(path)
	if !ok {
		return nil
	}
	l, _ := v.([]any)
	return l
}

// Object returns the object at path; absent or non-object values give nil
func (r Report) Object(path string) map[string]any {
	v, ok := r.Lookup(path)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}
