// Package tokenizer splits raw text into lower-cased words tagged with the
// 1-based line they occur on. Word boundaries are a fixed set of ASCII
// separator bytes; every other byte, including non-ASCII, is part of a word.
package tokenizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxWordLength is the number of bytes kept from an overlong word.
const DefaultMaxWordLength = 255

// Token is a single normalised word and the line it was found on.
type Token struct {
	Term string
	Line int
}

// Tokenizer scans byte streams into Tokens. Words longer than MaxWordLength
// bytes are cut to their first MaxWordLength bytes.
type Tokenizer struct {
	maxWordLength int
}

// New returns a Tokenizer truncating words at maxWordLength bytes. A
// non-positive value selects DefaultMaxWordLength.
func New(maxWordLength int) *Tokenizer {
	if maxWordLength <= 0 {
		maxWordLength = DefaultMaxWordLength
	}
	return &Tokenizer{maxWordLength: maxWordLength}
}

// MaxWordLength returns the truncation limit in bytes.
func (t *Tokenizer) MaxWordLength() int {
	return t.maxWordLength
}

// Scan reads r to the end and calls emit once per word in input order. It
// returns the number of tokens emitted.
func (t *Tokenizer) Scan(r io.Reader, emit func(Token)) (int, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	word := make([]byte, 0, min(t.maxWordLength, DefaultMaxWordLength))
	line := 1
	count := 0
	flush := func() {
		if len(word) == 0 {
			return
		}
		emit(Token{Term: string(word), Line: line})
		count++
		word = word[:0]
	}
	for {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return count, fmt.Errorf("reading input at line %d: %w", line, err)
		}
		if isSeparator(c) {
			flush()
			if c == '\n' {
				line++
			}
			continue
		}
		if len(word) < t.maxWordLength {
			word = append(word, toLower(c))
		}
	}
	flush()
	return count, nil
}

// Tokenize breaks text into Tokens using DefaultMaxWordLength.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0, len(text)/6)
	// a strings.Reader never fails mid-read
	_, _ = New(DefaultMaxWordLength).Scan(strings.NewReader(text), func(tok Token) {
		tokens = append(tokens, tok)
	})
	return tokens
}

func isSeparator(c byte) bool {
	switch c {
	case ' ', '\n', '.', ',', ':', ';', '\t', '\r':
		return true
	}
	return false
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
