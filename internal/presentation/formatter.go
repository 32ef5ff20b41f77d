// Package presentation renders command results.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatter writes values as indented JSON or YAML.
type Formatter struct {
	writer io.Writer
	format string
}

// NewFormatter creates a JSON formatter.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{writer: writer, format: FormatJSON}
}

// NewFormatterFor creates a formatter for format, "json" or "yaml".
func NewFormatterFor(writer io.Writer, format string) (*Formatter, error) {
	switch format {
	case "", FormatJSON:
		return NewFormatter(writer), nil
	case FormatYAML:
		return &Formatter{writer: writer, format: FormatYAML}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// Format writes v.
func (f *Formatter) Format(v any) error {
	if f.format == FormatYAML {
		enc := yaml.NewEncoder(f.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
