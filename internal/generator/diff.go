package generator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// maxDiffLines bounds the O(n*m) table used to compute the line diff.
const maxDiffLines = 5000

type lineOp int

const (
	opEqual lineOp = iota
	opDelete
	opInsert
)

type diffLine struct {
	op   lineOp
	text string
	oldN int
	newN int
}

// Diff renders a unified diff between old and newer with 3 lines of context.
// It returns "" when the contents are identical.
func Diff(oldPath, newPath string, old, newer []byte) string {
	if string(old) == string(newer) {
		return ""
	}

	a := splitLines(string(old))
	b := splitLines(string(newer))
	if len(a) > maxDiffLines || len(b) > maxDiffLines {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(a), len(b))
	}

	lines := editScript(a, b)

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+oldPath) + "\n")
	buf.WriteString(headerStyle.Render("+++ "+newPath) + "\n")
	for _, h := range hunks(lines, 3) {
		writeHunk(&buf, h)
	}
	return buf.String()
}

// editScript computes a line-level edit script from the longest common subsequence.
func editScript(a, b []string) []diffLine {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	out := make([]diffLine, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && a[i] == b[j]:
			out = append(out, diffLine{op: opEqual, text: a[i], oldN: i + 1, newN: j + 1})
			i++
			j++
		case j < m && (i == n || lcs[i][j+1] >= lcs[i+1][j]):
			out = append(out, diffLine{op: opInsert, text: b[j], oldN: i, newN: j + 1})
			j++
		default:
			out = append(out, diffLine{op: opDelete, text: a[i], oldN: i + 1, newN: j})
			i++
		}
	}
	return out
}

type hunk struct {
	lines []diffLine
}

// hunks groups changes with up to context unchanged lines around them.
func hunks(lines []diffLine, context int) []hunk {
	var result []hunk
	start := -1
	end := -1

	flush := func() {
		if start >= 0 {
			result = append(result, hunk{lines: lines[start:end]})
		}
		start, end = -1, -1
	}

	for i, l := range lines {
		if l.op == opEqual {
			continue
		}
		lo := max(0, i-context)
		hi := min(len(lines), i+context+1)
		if start >= 0 && lo <= end {
			end = max(end, hi)
			continue
		}
		flush()
		start, end = lo, hi
	}
	flush()
	return result
}

func writeHunk(buf *strings.Builder, h hunk) {
	oldStart, newStart := 0, 0
	oldCount, newCount := 0, 0
	for _, l := range h.lines {
		if l.op != opInsert {
			if oldStart == 0 {
				oldStart = l.oldN
			}
			oldCount++
		}
		if l.op != opDelete {
			if newStart == 0 {
				newStart = l.newN
			}
			newCount++
		}
	}
	buf.WriteString(hunkStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)) + "\n")

	for _, l := range h.lines {
		switch l.op {
		case opEqual:
			buf.WriteString(" " + l.text + "\n")
		case opDelete:
			buf.WriteString(removedStyle.Render("-"+l.text) + "\n")
		case opInsert:
			buf.WriteString(addedStyle.Render("+"+l.text) + "\n")
		}
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
