// Package codec is the JSON encode/decode boundary.
package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
)

func Encode(v any) (string, error) {
	serialized, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return string(serialized), nil
}

// EncodeIndent is Encode with two-space indentation, for console output.
func EncodeIndent(v any) (string, error) {
	serialized, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return string(serialized), nil
}

func Decode[T any](data string) (*T, error) {
	value := new(T)
	if err := json.Unmarshal([]byte(data), value); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return value, nil
}
