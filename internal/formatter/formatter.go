package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/mcncl/datapacker/internal/config"
	"github.com/mcncl/datapacker/internal/errors"
	"github.com/mcncl/datapacker/internal/models"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// Formatter is responsible for encoding output values as pretty-printed JSON
type Formatter struct {
	indent     string
	escapeHTML bool
}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{indent: strings.Repeat(" ", DefaultIndent)}
}

// NewFormatterWithConfig creates a Formatter using the formatting section of cfg.
func NewFormatterWithConfig(cfg *config.Config) *Formatter {
	indent := cfg.Formatting.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}
	return &Formatter{
		indent:     strings.Repeat(" ", indent),
		escapeHTML: cfg.Formatting.EscapeHTML,
	}
}

// Format encodes value as indented JSON without a trailing newline. Object
// keys keep the order they were inserted in.
func (f *Formatter) Format(value models.OutputValue) ([]byte, error) {
	f.applyEscaping(value)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", f.indent)
	encoder.SetEscapeHTML(f.escapeHTML)
	if err := encoder.Encode(value); err != nil {
		return nil, errors.NewSerializationError(fmt.Sprintf("failed to encode %T as JSON", value), err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// applyEscaping propagates the HTML escaping setting into every object, since
// orderedmap encodes its own values.
func (f *Formatter) applyEscaping(value models.OutputValue) {
	switch v := value.(type) {
	case *orderedmap.OrderedMap:
		v.SetEscapeHTML(f.escapeHTML)
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			f.applyEscaping(child)
		}
	case []any:
		for _, child := range v {
			f.applyEscaping(child)
		}
	}
}
