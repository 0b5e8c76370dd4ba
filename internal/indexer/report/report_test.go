package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
)

const header = "WORD INDEX (Lexicographic Order)\n=================================\n\n"

func TestWriteFormat(t *testing.T) {
	entries := []index.TermEntry{
		{Term: "cat", Lines: []int{1}},
		{Term: "dog", Lines: []int{2}},
		{Term: "ran", Lines: []int{2}},
		{Term: "sat", Lines: []int{1}},
		{Term: "the", Lines: []int{1, 2}},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries))
	assert.Equal(t, header+"cat: 1\ndog: 2\nran: 2\nsat: 1\nthe: 1, 2\n", buf.String())
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, header, buf.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePropagatesErrors(t *testing.T) {
	err := Write(brokenWriter{}, []index.TermEntry{{Term: "a", Lines: []int{1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.txt")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))

	entries := []index.TermEntry{{Term: "word", Lines: []int{3, 7, 11}}}
	require.NoError(t, WriteFile(path, entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header+"word: 3, 7, 11\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, left, 1, "temporary file left behind")
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "index.txt")
	err := WriteFile(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreate)
	assert.Contains(t, err.Error(), path)
}

func TestReadRoundTrip(t *testing.T) {
	entries := []index.TermEntry{
		{Term: "alpha", Lines: []int{1, 2, 40}},
		{Term: "beta!", Lines: []int{9}},
	}
	path := filepath.Join(t.TempDir(), "index.txt")
	require.NoError(t, WriteFile(path, entries))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReadEmptyBody(t *testing.T) {
	got, err := Read(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "header truncated"},
		{"wrong title", "INDEX\n", "header line 1"},
		{"no separator", header + "word 1\n", "missing word separator"},
		{"bad number", header + "word: 1, x\n", "bad line number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteFileFollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	link := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o600))
	if err := os.Symlink("real.txt", link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	require.NoError(t, WriteFile(link, []index.TermEntry{{Term: "w", Lines: []int{1}}}))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link replaced by a regular file")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, header+"w: 1\n", string(data))

	info, err = os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteFileDanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "out.txt")
	if err := os.Symlink("fresh.txt", link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	require.NoError(t, WriteFile(link, nil))

	data, err := os.ReadFile(filepath.Join(dir, "fresh.txt"))
	require.NoError(t, err)
	assert.Equal(t, header, string(data))
	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestWriteFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "reports")
	require.NoError(t, os.Mkdir(target, 0o755))

	err := WriteFile(target, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreate)
	assert.Contains(t, err.Error(), "is a directory")

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, left, 1, "temporary file left behind")
}

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "index.txt")
	got, err := ResolveTarget(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	_, err = ResolveTarget(dir)
	assert.ErrorIs(t, err, ErrCreate)
}
