// Package report renders a finished word index as the plain-text report and
// parses such reports back.
//
// The layout is fixed:
//
//	WORD INDEX (Lexicographic Order)
//	=================================
//
//	<word>: <n1>, <n2>, ...
//
// Words appear in ascending byte order, one per line.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
)

const (
	Title = "WORD INDEX (Lexicographic Order)"
	Rule  = "================================="
)

// ErrCreate is wrapped by WriteFile when the report file cannot be created.
var ErrCreate = errors.New("creating report file")

// Write renders entries to w. Entries must already be sorted by term.
func Write(w io.Writer, entries []index.TermEntry) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	bw.WriteString(Title)
	bw.WriteByte('\n')
	bw.WriteString(Rule)
	bw.WriteString("\n\n")

	var num []byte
	for _, entry := range entries {
		bw.WriteString(entry.Term)
		bw.WriteString(": ")
		for i, line := range entry.Lines {
			if i > 0 {
				bw.WriteString(", ")
			}
			num = strconv.AppendInt(num[:0], int64(line), 10)
			bw.Write(num)
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ResolveTarget returns the file a report for path ends up in. A symlink at
// path is followed to the file it names, existing or not. A path naming a
// directory is rejected with ErrCreate.
func ResolveTarget(path string) (string, error) {
	target := path
	if info, err := os.Lstat(path); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(path)
		switch {
		case err == nil:
			target = resolved
		case errors.Is(err, fs.ErrNotExist):
			// dangling link: the report creates the file it points at
			dest, err := os.Readlink(path)
			if err != nil {
				return "", fmt.Errorf("%w %s: %w", ErrCreate, path, err)
			}
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(filepath.Dir(path), dest)
			}
			target = dest
		default:
			return "", fmt.Errorf("%w %s: %w", ErrCreate, path, err)
		}
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w %s: is a directory", ErrCreate, path)
	}
	return target, nil
}

// WriteFile writes the report to a temporary file beside the resolved
// target of path, syncs it and renames it over the target, so a failed run
// never leaves a partial report. An existing target keeps its permissions;
// a new one is created 0644.
func WriteFile(path string, entries []index.TermEntry) (err error) {
	target, err := ResolveTarget(path)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(target); statErr == nil {
		mode = info.Mode().Perm()
	}

	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrCreate, path, err)
	}
	tmpPath := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := Write(f, entries); err != nil {
		return err
	}
	if err := f.Chmod(mode); err != nil {
		return fmt.Errorf("setting report permissions: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("renaming report file: %w", err)
	}
	return nil
}
