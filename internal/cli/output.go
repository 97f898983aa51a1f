package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/isoclient/validation"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatter renders a value for the terminal.
type Formatter interface {
	Format(w io.Writer, v any) error
}

// NewFormatter returns the formatter for format, which must be json or yaml.
func NewFormatter(format string) (Formatter, error) {
	format = strings.ToLower(format)
	if err := validation.Var("output", format, "oneof=json yaml"); err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return yamlFormatter{}, nil
	}
	return jsonFormatter{}, nil
}

type jsonFormatter struct{}

func (jsonFormatter) Format(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("formatting JSON: %w", err)
	}
	return nil
}

type yamlFormatter struct{}

func (yamlFormatter) Format(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("formatting YAML: %w", err)
	}
	return enc.Close()
}
