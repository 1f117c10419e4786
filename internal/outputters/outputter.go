package outputters

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/innerscope/internal/config"
	"github.com/dotcommander/innerscope/internal/output"
)

// Outputter handles output formatting
type Outputter struct {
	config *config.Config
	out    io.Writer
}

// NewOutputter creates a new Outputter writing to stdout.
func NewOutputter(config *config.Config) *Outputter {
	return &Outputter{
		config: config,
		out:    os.Stdout,
	}
}

// WithWriter redirects output written to the terminal.
func (o *Outputter) WithWriter(w io.Writer) *Outputter {
	o.out = w
	return o
}

// Formatter returns the formatter for format.
func (o *Outputter) Formatter(format string) (output.Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(o.out, o.config.Quiet, o.config.Verbose), nil
	case "compact":
		return output.NewCompactFormatter(o.out, o.config.Quiet), nil
	case "json":
		return output.NewJSONFormatter(o.out, o.config.Quiet, true, o.config.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(o.out, o.config.Quiet, o.config.Verbose, o.config.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Format renders entries using format, or the configured format when empty.
func (o *Outputter) Format(entries []output.Entry, format string) error {
	if format == "" {
		format = o.config.Format
	}
	formatter, err := o.Formatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(entries)
}
