package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verbStyles = map[string]lipgloss.Style{
		"CREATE": lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true),
		"UPDATE": lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true),
		"SKIP":   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true),
		"MKDIR":  lipgloss.NewStyle().Foreground(lipgloss.Color("blue")).Bold(true),
	}

	printer = message.NewPrinter(language.English)

	mu          sync.Mutex
	writer      io.Writer = os.Stdout
	verboseMode bool
)

// SetWriter redirects all output. A nil writer restores stdout.
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

// SetVerbose enables or disables verbose output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

func writeLine(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(writer, s)
}

// Success prints a completed operation.
func Success(msg string) {
	writeLine(successStyle.Render("🪺 " + msg))
}

// Error prints a failure that needs user attention.
func Error(msg string) {
	writeLine(errorStyle.Render("❌ " + msg))
}

// Info prints a status update.
func Info(msg string) {
	writeLine(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented follow-up item.
func Step(msg string) {
	writeLine(stepStyle.Render("   " + msg))
}

// Verbose prints only when verbose mode is enabled.
func Verbose(msg string) {
	mu.Lock()
	enabled := verboseMode
	mu.Unlock()
	if enabled {
		writeLine(stepStyle.Render("🔍 " + msg))
	}
}

// Action prints one tree change, e.g. "CREATE src/app/core/core.ts (1,843 bytes)".
// Directories are reported with size < 0 and no byte count.
func Action(verb, path string, size int) {
	style, ok := verbStyles[verb]
	if !ok {
		style = infoStyle
	}
	if size < 0 {
		writeLine(style.Render(verb) + " " + path + "/")
		return
	}
	writeLine(style.Render(verb) + " " + path + " " + stepStyle.Render(printer.Sprintf("(%d bytes)", size)))
}

// Summary prints the totals of a generation run.
func Summary(created, updated int, dryRun bool) {
	msg := printer.Sprintf("%d file(s) created, %d file(s) updated", created, updated)
	if dryRun {
		msg += " (dry run, nothing written)"
	}
	Success(msg)
}
