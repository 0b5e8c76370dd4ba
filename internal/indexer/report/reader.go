package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/wordindex/internal/indexer/index"
)

// Read parses a report produced by Write.
func Read(r io.Reader) ([]index.TermEntry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for i, want := range []string{Title, Rule, ""} {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("reading report header: %w", err)
			}
			return nil, fmt.Errorf("report header truncated at line %d", i+1)
		}
		if sc.Text() != want {
			return nil, fmt.Errorf("report header line %d: got %q, want %q", i+1, sc.Text(), want)
		}
	}

	var entries []index.TermEntry
	lineNo := 3
	for sc.Scan() {
		lineNo++
		term, rest, ok := strings.Cut(sc.Text(), ": ")
		if !ok || term == "" {
			return nil, fmt.Errorf("report line %d: missing word separator", lineNo)
		}
		fields := strings.Split(rest, ", ")
		lines := make([]int, 0, len(fields))
		for _, field := range fields {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("report line %d: bad line number %q: %w", lineNo, field, err)
			}
			lines = append(lines, n)
		}
		entries = append(entries, index.TermEntry{Term: term, Lines: lines})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return entries, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]index.TermEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()
	return Read(f)
}
