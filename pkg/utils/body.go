package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps inbound request bodies.
const MaxBodyBytes = 1 << 20

// ErrNoJSONObject means no JSON object could be recovered from a body.
var ErrNoJSONObject = errors.New("no JSON object found in body")

// ReadBody reads at most MaxBodyBytes from the request.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return nil, fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
	}
	return data, nil
}

// DecodeObject parses data as a single JSON object.
func DecodeObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNoJSONObject
	}
	return obj, nil
}

// DecodeObjectLenient accepts bodies that wrap a JSON object in other text,
// as some client integrations send: it falls back to the span between the
// first '{' and the last '}'.
func DecodeObjectLenient(data []byte) (map[string]json.RawMessage, error) {
	raw := bytes.TrimSpace(data)
	if obj, err := DecodeObject(raw); err == nil {
		return obj, nil
	}

	first := bytes.IndexByte(raw, '{')
	last := bytes.LastIndexByte(raw, '}')
	if first == -1 || last <= first {
		return nil, ErrNoJSONObject
	}
	obj, err := DecodeObject(raw[first : last+1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSONObject, err)
	}
	return obj, nil
}
