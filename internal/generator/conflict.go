package generator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user cancels conflict resolution.
var ErrCancelled = errors.New("generation cancelled")

// ConflictResolution represents what to do with a file whose on-disk
// content differs from what roost wants to write.
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	ShowDiff
	Cancel
)

func (r ConflictResolution) String() string {
	switch r {
	case Skip:
		return "skip"
	case Overwrite:
		return "overwrite"
	case ShowDiff:
		return "diff"
	default:
		return "cancel"
	}
}

// ConflictStrategy decides how to resolve one conflict.
type ConflictStrategy interface {
	Resolve(path string, existing, newer []byte) (ConflictResolution, error)
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// ResolverOptions mirrors the --skip, --diff and --interactive flags.
// With none set, conflicts are resolved by overwriting.
type ResolverOptions struct {
	Skip        bool
	Diff        bool
	Interactive bool
	Out         io.Writer
}

// Resolver handles file conflict resolution.
type Resolver struct {
	strategy ConflictStrategy
}

// NewResolver creates a resolver from flag values. The flags are mutually
// exclusive.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	set := 0
	for _, f := range []bool{opts.Skip, opts.Diff, opts.Interactive} {
		if f {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("--skip, --diff and --interactive cannot be combined")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	var s ConflictStrategy
	switch {
	case opts.Skip:
		s = &SkipStrategy{}
	case opts.Diff:
		s = &DiffStrategy{Out: opts.Out, Then: &InteractiveStrategy{Out: opts.Out}}
	case opts.Interactive:
		s = &InteractiveStrategy{Out: opts.Out}
	default:
		s = &ForceStrategy{}
	}
	return &Resolver{strategy: s}, nil
}

// NewResolverWithStrategy wraps an explicit strategy.
func NewResolverWithStrategy(s ConflictStrategy) *Resolver {
	return &Resolver{strategy: s}
}

// ResolveConflict determines what to do with a file that already exists.
func (r *Resolver) ResolveConflict(path string, existing, newer []byte) (ConflictResolution, error) {
	return r.strategy.Resolve(path, existing, newer)
}

// ForceStrategy always overwrites.
type ForceStrategy struct{}

func (s *ForceStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Overwrite, nil
}

// SkipStrategy always keeps the existing file.
type SkipStrategy struct{}

func (s *SkipStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	return Skip, nil
}

// DiffStrategy prints the diff, then delegates the decision to Then.
type DiffStrategy struct {
	Out  io.Writer
	Then ConflictStrategy
}

func (s *DiffStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	fmt.Fprint(s.Out, Diff(path, path, existing, newer))
	return s.Then.Resolve(path, existing, newer)
}

// InteractiveStrategy shows a keyboard-driven menu. Choosing "Show diff"
// prints the diff and shows the menu again.
type InteractiveStrategy struct {
	Out io.Writer
}

func (s *InteractiveStrategy) Resolve(path string, existing, newer []byte) (ConflictResolution, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return Cancel, fmt.Errorf("interactive conflict resolution for %s requires a terminal", path)
	}

	for {
		p := tea.NewProgram(newConflictMenuModel(path, len(existing)))
		final, err := p.Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show menu: %w", err)
		}

		m := final.(conflictMenuModel)
		if m.selected == nil {
			return Cancel, nil
		}
		if *m.selected != ShowDiff {
			return *m.selected, nil
		}
		fmt.Fprint(s.Out, Diff(path, path, existing, newer))
	}
}

type conflictMenuModel struct {
	path     string
	size     int
	choices  []string
	cursor   int
	selected *ConflictResolution
}

func newConflictMenuModel(path string, size int) conflictMenuModel {
	return conflictMenuModel{
		path: path,
		size: size,
		choices: []string{
			"Show diff",
			"Keep my version",
			"Replace with generated version",
			"Cancel",
		},
	}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter":
		r := choiceResolution(m.cursor)
		m.selected = &r
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠️  Modified file: ") + titleStyle.Render(m.path) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("    %d bytes on disk differ from the generated version", m.size)) + "\n\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if i == m.cursor {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}

func choiceResolution(cursor int) ConflictResolution {
	switch cursor {
	case 0:
		return ShowDiff
	case 1:
		return Skip
	case 2:
		return Overwrite
	default:
		return Cancel
	}
}
