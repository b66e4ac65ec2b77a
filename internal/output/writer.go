// Package output serializes listing records for downstream consumers.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Writer handles record serialization.
type Writer interface {
	// Write outputs a single record.
	Write(data any) error

	// Flush ensures all data is written.
	Flush() error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return &jsonWriter{w: bufio.NewWriter(w)}, nil
	case FormatJSONL:
		return &jsonlWriter{w: bufio.NewWriter(w)}, nil
	case FormatYAML:
		return &yamlWriter{w: bufio.NewWriter(w)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// jsonWriter buffers records and flushes one pretty-printed JSON array.
type jsonWriter struct {
	w     *bufio.Writer
	items []any
}

func (w *jsonWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

func (w *jsonWriter) Flush() error {
	out, err := json.MarshalIndent(w.items, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.w.Write(append(out, '\n')); err != nil {
		return err
	}
	return w.w.Flush()
}

// jsonlWriter writes newline-delimited JSON.
type jsonlWriter struct {
	w *bufio.Writer
}

func (w *jsonlWriter) Write(data any) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(append(out, '\n')); err != nil {
		return err
	}
	return nil
}

func (w *jsonlWriter) Flush() error {
	return w.w.Flush()
}

// yamlWriter writes records as a YAML document stream.
type yamlWriter struct {
	w   *bufio.Writer
	enc *yaml.Encoder
}

func (w *yamlWriter) Write(data any) error {
	if w.enc == nil {
		w.enc = yaml.NewEncoder(w.w)
		w.enc.SetIndent(2)
	}
	return w.enc.Encode(data)
}

func (w *yamlWriter) Flush() error {
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			return err
		}
	}
	return w.w.Flush()
}
