package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "rustic"}
	root.PersistentFlags().String("color", "off", "")
	root.PersistentFlags().Int("max-diagnostics", 64, "")
	return root
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.rs")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestBuildFailureReturnsExitCodeError(t *testing.T) {
	path := writeSource(t, "fn main() -> i32 { return y; }")
	root := newTestRoot()
	root.AddCommand(buildCmd)
	root.SetArgs([]string{"build", "--no-cache", path})

	err := root.Execute()
	var ee exitCodeError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want exitCodeError", err)
	}
	if ee.code != 1 {
		t.Fatalf("code = %d, want 1", ee.code)
	}
}

func TestBuildSuccessReturnsNilError(t *testing.T) {
	path := writeSource(t, "fn main() -> i32 { return 0; }")
	out := filepath.Join(filepath.Dir(path), "out.ll")
	root := newTestRoot()
	root.AddCommand(buildCmd)
	root.SetArgs([]string{"build", "--no-cache", "-o", out, path})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}
