package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/hxwen/tomato/internal/pomodoro"
	"github.com/hxwen/tomato/internal/session"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// isolate points all stores at temp directories so tests never touch real
// user state.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestStatusNoSession(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "no saved session") {
		t.Errorf("expected %q in output, got: %q", "no saved session", out)
	}
}

func TestStatusShowsSnapshot(t *testing.T) {
	isolate(t)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(&session.Snapshot{
		ID:                 "test-id",
		Task:               "deep work",
		Phase:              pomodoro.PhaseFocus,
		State:              pomodoro.StateRunning, // comes back paused
		RemainingSeconds:   90,
		PhaseTotalSeconds:  1500,
		CompletedPomodoros: 2,
		SavedAt:            time.Now(),
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"deep work", "Focus", "paused", "01:30", "25:00", "2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %q", want, out)
		}
	}
}

func TestResetDeletesSnapshot(t *testing.T) {
	isolate(t)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(&session.Snapshot{ID: "x", SavedAt: time.Now()}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := executeCommand(rootCmd, "reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status after reset: %v", err)
	}
	if !strings.Contains(out, "no saved session") {
		t.Errorf("expected snapshot to be gone, got: %q", out)
	}
}

func TestAboutPrintsPaths(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "about")
	if err != nil {
		t.Fatalf("about: %v", err)
	}
	for _, want := range []string{"tomato.db", "Data directory", "config.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %q", want, out)
		}
	}
}
