// Package ux renders command output, notices and user-facing errors.
package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Values accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted --format values
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Formatter writes one value in a fixed format
type Formatter interface {
	Format(data interface{}) error
}

// TextWriter is implemented by values that print themselves for humans
type TextWriter interface {
	WriteText(w io.Writer) error
}

// FormatterOptions configures NewFormatter. A nil Writer means stdout.
type FormatterOptions struct {
	Writer io.Writer
	// Compact drops JSON and YAML indentation
	Compact bool
}

type encodeFunc func(w io.Writer, data interface{}, compact bool) error

var encoders = map[string]encodeFunc{
	"":         encodeText,
	FormatText: encodeText,
	FormatJSON: encodeJSON,
	FormatYAML: encodeYAML,
}

type formatter struct {
	encode encodeFunc
	opts   FormatterOptions
}

func (f *formatter) Format(data interface{}) error {
	return f.encode(f.opts.Writer, data, f.opts.Compact)
}

// NewFormatter returns the formatter for format, or an error naming the
// supported values
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	encode, ok := encoders[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}

	f := &formatter{encode: encode}
	if opts != nil {
		f.opts = *opts
	}
	if f.opts.Writer == nil {
		f.opts.Writer = os.Stdout
	}
	return f, nil
}

func encodeJSON(w io.Writer, data interface{}, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}

func encodeYAML(w io.Writer, data interface{}, compact bool) error {
	enc := yaml.NewEncoder(w)
	if !compact {
		enc.SetIndent(2)
	}
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// encodeText accepts strings, TextWriters and fmt.Stringers
func encodeText(w io.Writer, data interface{}, _ bool) error {
	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case TextWriter:
		return v.WriteText(w)
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, v.String())
		return err
	default:
		return fmt.Errorf("text output cannot render %T, use --format json or yaml", data)
	}
}
