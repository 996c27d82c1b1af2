// Package codec centralizes the encoding of result summaries.
//
// Every codec writes the same bytes for the same value: two-space indented
// JSON with HTML characters left unescaped and a trailing newline. Summaries
// record the codec name so tooling can tell which encoder produced them.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Codec encodes and decodes summary values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Name() string
	// Encode writes v to w followed by a newline.
	Encode(w io.Writer, v any) error
	Unmarshal(data []byte, v any) error
}

const indent = "  "

var registry = map[string]Codec{
	GoJSON{}.Name(): GoJSON{},
	JSON{}.Name():   JSON{},
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name. The empty name
// selects Default.
func ByName(name string) (Codec, bool) {
	if name == "" {
		return Default, true
	}
	c, ok := registry[name]
	return c, ok
}

// Names lists the names accepted by ByName, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Marshal encodes v with c into a new buffer. A nil c uses Default.
func Marshal(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf, v); err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	return buf.Bytes(), nil
}
