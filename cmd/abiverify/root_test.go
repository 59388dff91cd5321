package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.Equal(t, "abiverify", cmd.Use)

	for _, name := range []string{"verify", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}
}

func TestFormatValidation(t *testing.T) {
	require.True(t, isValidFormat("text"))
	require.True(t, isValidFormat("json"))
	require.False(t, isValidFormat("xml"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "version"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid format")
}

func writeModule(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestVerifyCommandAcceptsCleanModule(t *testing.T) {
	path := writeModule(t, `{"functions": [
		{"name": "_start", "linkage": "external", "callingConv": "ccc", "returnType": {"kind": "void"},
		 "blocks": [{"name": "entry", "instructions": [{"opcode": "ret"}]}]}
	]}`)

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"verify", path})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.NoError(t, err)
	require.Contains(t, out.String(), "accepted")
}

func TestVerifyCommandReportsDiagnosticsForDisallowedModule(t *testing.T) {
	path := writeModule(t, `{"globals": [{"name": "a", "linkage": "external", "type": {"kind": "int", "intWidth": 32}}]}`)

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"verify", path})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	// The default fatal threshold is 1, so the diagnostics recorded by the
	// module pass stop the run before the function pass.
	require.Equal(t, ExitFatalThreshold, ExitCodeOf(err))
	require.Contains(t, out.String(), "error:")
}

func TestVerifyCommandJSONFormat(t *testing.T) {
	path := writeModule(t, `{"functions": [
		{"name": "_start", "linkage": "external", "callingConv": "ccc", "returnType": {"kind": "void"},
		 "blocks": [{"name": "entry", "instructions": [{"opcode": "ret"}]}]}
	]}`)

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "json", "verify", path})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.NoError(t, err)
	require.Contains(t, out.String(), `"accepted": true`)
}

func TestVerifyCommandRejectsMissingFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"verify", filepath.Join(t.TempDir(), "missing.json")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	require.Equal(t, ExitCommandError, ExitCodeOf(err))
}

func TestVerifyCommandWithConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("fatal-threshold: 0\n"), 0o644))

	modulePath := writeModule(t, `{"globals": [{"name": "a", "linkage": "external", "type": {"kind": "int", "intWidth": 32}}]}`)

	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", configPath, "verify", modulePath})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	// With fatal-threshold 0 both the bad-linkage diagnostic and the
	// no-entry-point diagnostic are collected in the same run.
	require.Equal(t, 2, bytes.Count(out.Bytes(), []byte("error:")))
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	require.NotEmpty(t, out.String())
}
