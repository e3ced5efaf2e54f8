package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// cmdResult holds the output of one command execution.
type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// executeRoot runs the root command with args and captures its output.
func executeRoot(t *testing.T, args ...string) cmdResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// testEnv is an isolated config file and database directory.
type testEnv struct {
	dir        string
	configPath string
	dbDir      string
}

func newTestEnv(t *testing.T, configYAML string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "mailscout.yaml"),
		dbDir:      filepath.Join(dir, "db"),
	}
	if configYAML == "" {
		configYAML = "{}\n"
	}
	if err := os.WriteFile(env.configPath, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// args prefixes the isolation flags to a subcommand invocation.
func (e *testEnv) args(sub string, rest ...string) []string {
	return append([]string{sub, "-c", e.configPath, "--db-dir", e.dbDir}, rest...)
}

// writeFile writes content under the env directory and returns the path.
func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
