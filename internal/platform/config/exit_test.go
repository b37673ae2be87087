package config

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestExitf_ExitsWithCode1 verifies that Exitf writes to stderr and exits
// with code 1. It uses the subprocess test pattern because os.Exit cannot be
// intercepted in-process.
func TestExitf_ExitsWithCode1(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		Exitf("fatal: %s", "stddev must be non-negative")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitf_ExitsWithCode1$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "fatal: stddev must be non-negative") {
		t.Fatalf("expected stderr to contain message, got %q", string(out))
	}
}

func TestExitfUsesInjectedExit(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	prevWriter, prevExit := exitWriter, exitFunc
	exitWriter = &buf
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() {
		exitWriter, exitFunc = prevWriter, prevExit
	})

	Exitf("Error: %v", "boom")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if got := buf.String(); got != "Error: boom\n" {
		t.Fatalf("output = %q, want %q", got, "Error: boom\n")
	}
}
