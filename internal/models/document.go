package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"time"
)

// rawDocument is a decoded JSON object whose known keys are popped one by one;
// whatever is left over becomes the passthrough part of the document.
type rawDocument map[string]json.RawMessage

func decodeRawDocument(data []byte) (rawDocument, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "body", Reason: "must be a JSON object", Err: err}
	}
	if raw == nil {
		return nil, &ValidationError{Field: "body", Reason: "must be a JSON object"}
	}
	// identity is always assigned by the store
	delete(raw, "_id")
	return raw, nil
}

func (r rawDocument) popString(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", nil
	}
	delete(r, key)
	if string(v) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", &ValidationError{Field: key, Reason: "must be a string", Err: err}
	}
	return s, nil
}

func (r rawDocument) popTime(key string) (time.Time, error) {
	v, ok := r[key]
	if !ok {
		return time.Time{}, nil
	}
	delete(r, key)
	if string(v) == "null" {
		return time.Time{}, nil
	}
	var t time.Time
	if err := json.Unmarshal(v, &t); err != nil {
		return time.Time{}, &ValidationError{Field: key, Reason: "must be an RFC 3339 timestamp", Err: err}
	}
	return t.UTC(), nil
}

func (r rawDocument) extra() (map[string]any, error) {
	if len(r) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(r))
	for k, v := range r {
		x, err := decodeValue(v)
		if err != nil {
			return nil, &ValidationError{Field: k, Reason: "is not valid JSON", Err: err}
		}
		out[k] = x
	}
	return out, nil
}

// decodeValue keeps numbers as json.Number so they are written back with the
// digits the client sent.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	return x, nil
}

// DecodeExtra reads a stored passthrough object. Empty input and empty
// objects yield nil.
func DecodeExtra(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	x, err := decodeValue(data)
	if err != nil {
		return nil, err
	}
	m, _ := x.(map[string]any)
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}

// encodeDocument renders passthrough fields and known fields as one JSON
// object. Known fields win on key collisions.
func encodeDocument(extra map[string]any, known map[string]any) ([]byte, error) {
	out := make(map[string]any, len(extra)+len(known))
	maps.Copy(out, extra)
	maps.Copy(out, known)
	return json.Marshal(out)
}
