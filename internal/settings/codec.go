package settings

import (
	"encoding/json"
	"strconv"
)

// Codec converts a setting value to and from its stored string form
type Codec[T any] interface {
	Encode(v T) (string, error)
	Decode(s string) (T, error)
}

// StringCodec stores strings as-is. Named string types work too.
type StringCodec[T ~string] struct{}

func (StringCodec[T]) Encode(v T) (string, error) { return string(v), nil }

func (StringCodec[T]) Decode(s string) (T, error) { return T(s), nil }

// BoolCodec stores booleans as "true" or "false"
type BoolCodec struct{}

func (BoolCodec) Encode(v bool) (string, error) { return strconv.FormatBool(v), nil }

func (BoolCodec) Decode(s string) (bool, error) { return strconv.ParseBool(s) }

// JSONCodec stores values as JSON. When Base is set, decoding starts from
// Base() so fields missing from the stored document keep their defaults.
type JSONCodec[T any] struct {
	Base func() T
}

func (JSONCodec[T]) Encode(v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c JSONCodec[T]) Decode(s string) (T, error) {
	var v T
	if c.Base != nil {
		v = c.Base()
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
