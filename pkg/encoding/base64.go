// Package encoding provides JSON-serializable binary data types used by
// the HTTP API, primarily for audio payloads in biometric requests.
package encoding

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Base64Data is a byte slice that serializes to/from standard base64 in
// JSON. A JSON null leaves the slice unchanged.
type Base64Data []byte

// MarshalJSON implements json.Marshaler.
func (b Base64Data) MarshalJSON() ([]byte, error) {
	return []byte(`"` + base64.StdEncoding.EncodeToString(b) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Base64Data) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return errors.New("unmarshal base64 data: empty input")
	}
	switch data[0] {
	case 'n': // null
		return nil
	case '"':
		if len(data) < 2 || data[len(data)-1] != '"' {
			return errors.New("unmarshal base64 data: invalid string")
		}
		decoded, err := base64.StdEncoding.DecodeString(string(data[1 : len(data)-1]))
		if err != nil {
			return fmt.Errorf("unmarshal base64 data: %w", err)
		}
		*b = decoded
		return nil
	default:
		return fmt.Errorf("unmarshal base64 data: expected string, got %s", data)
	}
}

// String returns the base64-encoded representation.
func (b Base64Data) String() string {
	return base64.StdEncoding.EncodeToString(b)
}
