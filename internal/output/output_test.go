package output

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	SetWriter(&buf)
	t.Cleanup(func() { SetWriter(nil) })
	f()
	return buf.String()
}

func TestSuccess(t *testing.T) {
	out := capture(t, func() { Success("Applied auth-features") })

	if !strings.Contains(out, "🪺") {
		t.Error("Success output should contain the nest emoji")
	}
	if !strings.Contains(out, "Applied auth-features") {
		t.Error("Success output should contain the message")
	}
}

func TestError(t *testing.T) {
	out := capture(t, func() { Error("could not find package.json") })

	if !strings.Contains(out, "❌") || !strings.Contains(out, "could not find package.json") {
		t.Errorf("unexpected error output: %q", out)
	}
}

func TestVerbose(t *testing.T) {
	out := capture(t, func() {
		SetVerbose(false)
		Verbose("hidden")
		SetVerbose(true)
		Verbose("shown")
		SetVerbose(false)
	})

	if strings.Contains(out, "hidden") {
		t.Error("Verbose printed while disabled")
	}
	if !strings.Contains(out, "shown") {
		t.Error("Verbose did not print while enabled")
	}
}

func TestAction(t *testing.T) {
	out := capture(t, func() {
		Action("CREATE", "src/app/core/core.ts", 1843)
		Action("CREATE", "src/app/ui", -1)
	})

	if !strings.Contains(out, "src/app/core/core.ts") || !strings.Contains(out, "1,843 bytes") {
		t.Errorf("file action not formatted: %q", out)
	}
	if !strings.Contains(out, "src/app/ui/") {
		t.Errorf("directory action not formatted: %q", out)
	}
}

func TestSummary(t *testing.T) {
	out := capture(t, func() { Summary(12, 3, true) })

	if !strings.Contains(out, "12 file(s) created, 3 file(s) updated") {
		t.Errorf("summary counts missing: %q", out)
	}
	if !strings.Contains(out, "dry run") {
		t.Errorf("summary should mention dry run: %q", out)
	}
}
