package errors

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[90m"
	colorBold   = "\033[1m"
)

// Formatter renders errors for the terminal.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool

	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer

	// Indent prefixes context and suggestion lines.
	Indent string
}

// DefaultFormatter returns a Formatter for stderr, colored when stderr is a TTY.
func DefaultFormatter() *Formatter {
	return &Formatter{
		UseColor: IsTTY(os.Stderr),
		Writer:   os.Stderr,
		Indent:   "  ",
	}
}

// IsTTY returns true if f is a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Format renders err with the default formatter.
func Format(err error) string {
	return DefaultFormatter().Format(err)
}

// Format renders err. SkylineErrors show code, message, context, cause and
// suggestions; other errors are shown as a single line.
func (f *Formatter) Format(err error) string {
	if err == nil {
		return ""
	}

	se, ok := AsSkylineError(err)
	if !ok {
		return f.paint(colorRed, "Error: ") + err.Error()
	}

	var sb strings.Builder

	// ERROR [CODE]: Message
	if f.UseColor {
		sb.WriteString(colorRed + colorBold + "ERROR" + colorReset)
		sb.WriteString(colorRed + " [" + se.Code + "]: " + colorReset)
	} else {
		sb.WriteString("ERROR [" + se.Code + "]: ")
	}
	sb.WriteString(se.Message)
	sb.WriteString("\n")

	keys := make([]string, 0, len(se.Context))
	for k := range se.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(f.Indent)
		sb.WriteString(f.paint(colorYellow, key+": "))
		sb.WriteString(se.Context[key])
		sb.WriteString("\n")
	}

	if se.Cause != nil {
		sb.WriteString(f.Indent)
		sb.WriteString(f.paint(colorDim, "cause: "+se.Cause.Error()))
		sb.WriteString("\n")
	}

	if se.HasSuggestions() {
		if se.HasContext() || se.Cause != nil {
			sb.WriteString("\n")
		}
		for i, suggestion := range se.Suggestions {
			sb.WriteString(f.Indent)
			sb.WriteString(f.paint(colorCyan, "→ "+suggestion))
			if i < len(se.Suggestions)-1 {
				sb.WriteString("\n")
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) paint(color, s string) string {
	if !f.UseColor {
		return s
	}
	return color + s + colorReset
}

// Display writes the formatted error to the formatter's writer.
func (f *Formatter) Display(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(f.Writer, f.Format(err))
}

// Display writes err to stderr with default settings.
func Display(err error) {
	DefaultFormatter().Display(err)
}

// Sprint returns a formatted error string without colors.
func Sprint(err error) string {
	f := &Formatter{UseColor: false, Writer: io.Discard, Indent: "  "}
	return f.Format(err)
}

// CategoryLabel returns a human-readable label for an error category.
func CategoryLabel(cat Category) string {
	switch cat {
	case CategoryParse:
		return "Parse Error"
	case CategoryIO:
		return "I/O Error"
	case CategoryData:
		return "Data Error"
	case CategoryConfig:
		return "Configuration Error"
	case CategoryInternal:
		return "Internal Error"
	default:
		return "Error"
	}
}
