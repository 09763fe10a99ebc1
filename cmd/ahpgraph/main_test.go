package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arch = `
name: duo
kinds:
  Core:
    library: cpu.Core
    ports:
      - {name: mem, type: Mem}
  Memory:
    library: mem.Memory
    ports:
      - {name: cpu, type: Mem}
  Node:
    devices:
      - {name: core, kind: Core}
      - {name: mem, kind: Memory}
    links:
      - [core.mem, mem.cpu, 1ns]
graph:
  devices:
    - {name: a, kind: Node, partition: 0}
    - {name: b, kind: Node, partition: 1}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeArch(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(arch), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ahpgraph version "))
}

func TestBuildCommand(t *testing.T) {
	path := writeArch(t)
	dir := t.TempDir()

	out, err := run(t, "build", path, "--out", dir, "--ranks", "2", "--rank=-1")
	require.NoError(t, err)
	assert.Equal(t, "duo0\nduo1\n", out)
	assert.FileExists(t, filepath.Join(dir, "duo0.json"))
	assert.FileExists(t, filepath.Join(dir, "duo1.json"))

	_, err = run(t, "build", path, "--out", dir, "--ranks", "1", "--rank=-1", "--format", "yaml")
	assert.Error(t, err)
	_, err = run(t, "build", "--ranks", "1")
	assert.Error(t, err, "the architecture file is required")
}

func TestGraphCommand(t *testing.T) {
	path := writeArch(t)

	out, err := run(t, "graph", path, "--ranks", "1", "--rank=-1", "--format", "mermaid", "--flatten")
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "a.core")
}

func TestValidateCommand(t *testing.T) {
	path := writeArch(t)

	out, err := run(t, "validate", path, "--ranks", "2", "--rank=-1")
	require.NoError(t, err)
	assert.Contains(t, out, "rank 0: 2 devices, 1 links")
	assert.Contains(t, out, "Graph is valid!")
}

func TestSummaryCommand(t *testing.T) {
	path := writeArch(t)

	out, err := run(t, "summary", path, "--ranks", "1", "--rank=-1", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# duo")
	assert.Contains(t, out, "| Core | 2 |")
}

func TestLogLevelFlag(t *testing.T) {
	_, err := run(t, "validate", writeArch(t), "--ranks", "1", "--rank=-1", "--log-level", "shout")
	assert.Error(t, err)
	_, err = run(t, "version", "--log-level", "off")
	assert.NoError(t, err)
}

func TestServeCommand_UnknownMCPTransport(t *testing.T) {
	_, err := run(t, "serve", writeArch(t), "--mcp=carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown MCP transport "carrier-pigeon"`)
}
