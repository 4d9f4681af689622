// Package reporttest provides crash report fixtures for tests
package reporttest

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"testing"
)

//go:embed testdata/report.json
var sample []byte

// Sample returns a complete report.json payload
func Sample() []byte { return bytes.Clone(sample) }

// Tree decodes the sample into a mutable tree
func Tree(t testing.TB) map[string]any {
	t.Helper()
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(sample))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	return m
}

// Encode marshals a tree back to JSON
func Encode(t testing.TB, m map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("encode tree: %v", err)
	}
	return b
}

// Without returns the sample with the dotted path removed
func Without(t testing.TB, path string) []byte {
	t.Helper()
	m := Tree(t)
	keys := strings.Split(path, ".")
	cur := m
	for _, k := range keys[:len(keys)-1] {
		next, ok := cur[k].(map[string]any)
		if !ok {
			t.Fatalf("path %q does not resolve to an object at %q", path, k)
		}
		cur = next
	}
	delete(cur, keys[len(keys)-1])
	return Encode(t, m)
}

// Entry is one named file in an ordered zip
type Entry struct {
	Name string
	Body []byte
}

// Zip builds an in-memory zip; names ending in "/" become directories
func Zip(t testing.TB, files map[string][]byte) []byte {
	t.Helper()
	entries := make([]Entry, 0, len(files))
	for name, body := range files {
		entries = append(entries, Entry{Name: name, Body: body})
	}
	return ZipEntries(t, entries...)
}

// ZipEntries writes entries in the given order, names verbatim and repeats allowed
func ZipEntries(t testing.TB, entries ...Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", e.Name, err)
		}
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		if _, err := w.Write(e.Body); err != nil {
			t.Fatalf("zip write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// Bundle is a zip holding the sample report plus the given attachments
func Bundle(t testing.TB, attachments map[string][]byte) []byte {
	t.Helper()
	files := map[string][]byte{"report.json": Sample()}
	for k, v := range attachments {
		files[k] = v
	}
	return Zip(t, files)
}
