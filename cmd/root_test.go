package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRoot_RegistersCommandGroups(t *testing.T) {
	root := rootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"auth", "config", "device", "report", "history"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing %q command, have %v", want, names)
		}
	}
}

func TestRoot_LoadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nprof.env")
	if err := os.WriteFile(path, []byte("NPROF_TEST_ENV_FILE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NPROF_TEST_ENV_FILE", "")
	os.Unsetenv("NPROF_TEST_ENV_FILE")

	root := rootCmd()
	var got string
	root.AddCommand(&cobra.Command{
		Use: "noop",
		Run: func(cmd *cobra.Command, args []string) { got = os.Getenv("NPROF_TEST_ENV_FILE") },
	})
	root.SetArgs([]string{"--env-file", path, "noop"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != "loaded" {
		t.Errorf("NPROF_TEST_ENV_FILE = %q, want loaded", got)
	}
}

func TestRoot_MissingEnvFile(t *testing.T) {
	root := rootCmd()
	root.AddCommand(&cobra.Command{Use: "noop", Run: func(*cobra.Command, []string) {}})
	var errOut bytes.Buffer
	root.SetErr(&errOut)
	root.SetOut(&errOut)
	root.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "noop"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "failed to load env file") {
		t.Errorf("error = %v, want env file failure", err)
	}
}
