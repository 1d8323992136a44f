package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer handles all terminal output with consistent styling.
type Renderer struct {
	out       io.Writer
	err       io.Writer
	noColor   bool
	quiet     bool
	highlight *regexp.Regexp
}

// NewRenderer creates a new Renderer with default settings.
func NewRenderer() *Renderer {
	return &Renderer{
		out: os.Stdout,
		err: os.Stderr,
	}
}

// Option is a functional option for configuring the Renderer.
type Option func(*Renderer)

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.out = w
	}
}

// WithError sets the error writer.
func WithError(w io.Writer) Option {
	return func(r *Renderer) {
		r.err = w
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) Option {
	return func(r *Renderer) {
		r.noColor = noColor
	}
}

// WithQuiet enables quiet mode (suppresses status messages).
func WithQuiet(quiet bool) Option {
	return func(r *Renderer) {
		r.quiet = quiet
	}
}

// WithHighlight sets a pattern to highlight in message text.
// Invalid patterns disable highlighting.
func WithHighlight(pattern string) Option {
	return func(r *Renderer) {
		if pattern != "" {
			r.highlight, _ = regexp.Compile("(?i)(" + pattern + ")")
		}
	}
}

// NewRendererWithOptions creates a new Renderer with the given options.
func NewRendererWithOptions(opts ...Option) *Renderer {
	r := NewRenderer()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// render applies styling if color is enabled.
func (r *Renderer) render(style lipgloss.Style, text string) string {
	if r.noColor {
		return text
	}
	return style.Render(text)
}

// --- Status and Messages ---

// Status prints a status message (suppressed in quiet mode).
func (r *Renderer) Status(format string, args ...any) {
	if r.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.err, r.render(StatusStyle, msg))
}

// Info prints an informational message.
func (r *Renderer) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.out, msg)
}

// Success prints a success message.
func (r *Renderer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.out, r.render(SuccessStyle, msg))
}

// Warning prints a warning message (suppressed in quiet mode).
func (r *Renderer) Warning(format string, args ...any) {
	if r.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.err, r.render(WarningStyle, "Warning: "+msg))
}

// Error prints an error message. Multi-line errors keep their layout; only
// the first line is styled.
func (r *Renderer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	first, rest, _ := strings.Cut(msg, "\n")
	fmt.Fprintln(r.err, r.render(ErrorStyle, "Error: "+first))
	if rest != "" {
		fmt.Fprintln(r.err, rest)
	}
}

// Debug prints a debug message.
func (r *Renderer) Debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.err, r.render(MutedStyle, "[DEBUG] "+msg))
}

// --- Formatted Output ---

// KeyValue prints a key-value pair.
func (r *Renderer) KeyValue(key, value string) {
	label := r.render(LabelStyle, key+":")
	fmt.Fprintf(r.out, "%s %s\n", label, value)
}

// KeyValueIndent prints an indented key-value pair.
func (r *Renderer) KeyValueIndent(key, value string, indent int) {
	prefix := strings.Repeat("  ", indent)
	label := r.render(LabelStyle, key+":")
	fmt.Fprintf(r.out, "%s%s %s\n", prefix, label, value)
}

// Section prints a section title.
func (r *Renderer) Section(title string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.render(SectionTitleStyle, title))
}

// Divider prints a horizontal divider.
func (r *Renderer) Divider() {
	fmt.Fprintln(r.out, r.render(MutedStyle, strings.Repeat("─", 40)))
}

// Newline prints a blank line.
func (r *Renderer) Newline() {
	fmt.Fprintln(r.out)
}

// Muted prints secondary text.
func (r *Renderer) Muted(format string, args ...any) {
	fmt.Fprintln(r.out, r.render(MutedStyle, fmt.Sprintf(format, args...)))
}

// --- Log Message Rendering ---

// LogMessage describes one extracted log line for display.
type LogMessage struct {
	Index    int
	ID       string
	Level    string
	Origin   string // service and instance, e.g. "svc.api @ api-0"
	Location string
	Lines    []string
}

// LogMessage renders a log line header followed by its indented text.
func (r *Renderer) LogMessage(m LogMessage) {
	fmt.Fprint(r.out, r.render(MutedStyle, fmt.Sprintf("[%d] ", m.Index)))
	if m.Level != "" {
		fmt.Fprint(r.out, r.render(LevelStyle(m.Level), fmt.Sprintf("%-5s", strings.ToUpper(m.Level))))
		fmt.Fprint(r.out, " ")
	}
	if m.Origin != "" {
		fmt.Fprint(r.out, r.render(ServiceStyle, m.Origin))
	}
	if m.Location != "" {
		fmt.Fprint(r.out, " | ")
		fmt.Fprint(r.out, r.render(LocationStyle, m.Location))
	}
	if m.ID != "" {
		fmt.Fprint(r.out, r.render(MutedStyle, "  #"+m.ID))
	}
	fmt.Fprintln(r.out)

	for _, text := range m.Lines {
		for _, line := range strings.Split(text, "\n") {
			if r.highlight != nil && !r.noColor {
				line = r.highlight.ReplaceAllStringFunc(line, func(match string) string {
					return HighlightStyle.Render(match)
				})
			}
			fmt.Fprintf(r.out, "  %s\n", line)
		}
	}
}

// RegionFailure renders one region's error inside a multi-region report.
func (r *Renderer) RegionFailure(region string, err error) {
	fmt.Fprintln(r.out, r.render(ErrorStyle, fmt.Sprintf("%s: failed", region)))
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(r.out, "  %s\n", line)
	}
}

// --- Table Rendering ---

// Table renders a simple table.
func (r *Renderer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerParts := make([]string, len(headers))
	for i, h := range headers {
		headerParts[i] = r.render(LabelStyle, fmt.Sprintf("%-*s", widths[i], h))
	}
	fmt.Fprintln(r.out, strings.TrimRight(strings.Join(headerParts, "  "), " "))

	sepParts := make([]string, len(headers))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(r.out, r.render(MutedStyle, strings.Join(sepParts, "  ")))

	for _, row := range rows {
		rowParts := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			rowParts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(r.out, strings.TrimRight(strings.Join(rowParts, "  "), " "))
	}
}

// NoResults prints a "no results" message.
func (r *Renderer) NoResults() {
	fmt.Fprintln(r.out, r.render(MutedStyle, "No log messages found."))
}
