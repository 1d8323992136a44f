package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jmurray2011/logid/internal/ui"
)

// Format specifies the output format type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use json or text)", s)
	}
}

// Options selects which optional sections are written.
type Options struct {
	ShowMetadata      bool
	ShowScanTimeRange bool
	ShowTagInfos      bool
}

// DefaultOptions shows metadata and scan ranges but hides tag infos.
func DefaultOptions() Options {
	return Options{
		ShowMetadata:      true,
		ShowScanTimeRange: true,
	}
}

// Formatter handles output formatting for different formats.
type Formatter struct {
	format   Format
	writer   io.Writer
	opts     Options
	renderer *ui.Renderer
}

// NewFormatter creates a new formatter with the specified format. Renderer
// options apply to text output only.
func NewFormatter(format string, writer io.Writer, opts Options, rendererOpts ...ui.Option) *Formatter {
	rendererOpts = append([]ui.Option{ui.WithOutput(writer)}, rendererOpts...)
	return &Formatter{
		format:   Format(format),
		writer:   writer,
		opts:     opts,
		renderer: ui.NewRendererWithOptions(rendererOpts...),
	}
}

// writeJSON writes v pretty-printed with a trailing newline.
func (f *Formatter) writeJSON(v interface{}) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// truncateMessage truncates a message to maxLen runes on one line.
func truncateMessage(msg string, maxLen int) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", "")
	if r := []rune(msg); len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return msg
}
