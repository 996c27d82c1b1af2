package codec

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// GoJSON is backed by github.com/goccy/go-json.
type GoJSON struct{}

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }

// Encode implements Codec.
func (GoJSON) Encode(w io.Writer, v any) error {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(v)
}

// Unmarshal implements Codec.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
