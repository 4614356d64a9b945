//go:build !stdjson

package jsoncompat

import (
	"io"

	"github.com/bytedance/sonic"
)

// Marshal proxies to sonic configured for encoding/json compatible output.
func Marshal(v any) ([]byte, error) { return sonic.ConfigStd.Marshal(v) }

// Unmarshal proxies to sonic configured for encoding/json compatible input.
func Unmarshal(data []byte, v any) error { return sonic.ConfigStd.Unmarshal(data, v) }

func NewEncoder(w io.Writer) Encoder { return sonic.ConfigStd.NewEncoder(w) }

func NewDecoder(r io.Reader) Decoder { return sonic.ConfigStd.NewDecoder(r) }
