package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "WORD INDEX (Lexicographic Order)\n=================================\n\n"

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "input.txt", "The cat sat.\nThe dog ran.")
	out := filepath.Join(dir, "index.txt")

	code, stdout, stderr := runCLI(t, in, out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Index generated: "+out+"\n")
	assert.Regexp(t, `Words: 5 \| Time: \d+\.\d{6} sec\n`, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, header+"cat: 1\ndog: 2\nran: 2\nsat: 1\nthe: 1, 2\n", string(data))
}

func TestRunUsage(t *testing.T) {
	code, stdout, stderr := runCLI(t, "only-one-arg")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Usage: wordindex")
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "absent.txt")
	out := filepath.Join(dir, "index.txt")

	code, stdout, stderr := runCLI(t, in, out)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "cannot open input file: "+in)
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no report may be written")
}

func TestRunUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "input.txt", "hello")
	out := filepath.Join(dir, "missing", "index.txt")

	code, _, stderr := runCLI(t, in, out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cannot open output file: "+out)
}

func TestRunBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "cfg.yaml", "indexer:\n  initialCapacity: 0\n")
	in := writeFile(t, dir, "input.txt", "hello")

	code, _, stderr := runCLI(t, "-config", cfg, in, filepath.Join(dir, "out.txt"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "initialCapacity")
}

func TestRunWritesMetricsAndSpans(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "wordindex.prom")
	cfg := writeFile(t, dir, "cfg.yaml", `
indexer:
  initialCapacity: 2
logging:
  level: info
metrics:
  enabled: true
  textfilePath: `+prom+`
tracing:
  enabled: true
`)
	in := writeFile(t, dir, "input.txt", "one two three four five\nsix seven eight")
	out := filepath.Join(dir, "index.txt")

	code, _, stderr := runCLI(t, "-config", cfg, in, out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "span=tokenize")
	assert.Contains(t, stderr, "span=export")
	assert.Contains(t, stderr, "run_id=")

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wordindex_distinct_words 8")
	assert.Contains(t, string(data), "wordindex_tokens_total 8")
}

func TestRunPreflightFailureStopsBeforeIndexing(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "cfg.yaml", `
publish:
  timeout: 2s
redis:
  enabled: true
  addr: 127.0.0.1:1
`)
	in := writeFile(t, dir, "input.txt", "hello")
	out := filepath.Join(dir, "index.txt")

	code, _, stderr := runCLI(t, "-config", cfg, in, out)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "preflight check failed")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunOutputIsDirectory(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "input.txt", "hello")
	out := filepath.Join(dir, "reports")
	require.NoError(t, os.Mkdir(out, 0o755))

	code, stdout, stderr := runCLI(t, in, out)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "cannot open output file: "+out)
	assert.Contains(t, stderr, "is a directory")
}

func TestRunWritesThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "input.txt", "b a")
	target := writeFile(t, dir, "real.txt", "old")
	link := filepath.Join(dir, "out.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	code, _, stderr := runCLI(t, in, link)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, header+"a: 1\nb: 1\n", string(data))
	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}
