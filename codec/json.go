package codec

import (
	"encoding/json"
	"io"
)

// JSON is the standard library codec, for callers that diff summaries
// against files written by other encoding/json based tools.
type JSON struct{}

// Name returns "json".
func (JSON) Name() string { return "json" }

// Encode implements Codec.
func (JSON) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(v)
}

// Unmarshal implements Codec.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
