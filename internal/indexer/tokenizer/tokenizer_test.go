package tokenizer

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"empty string", "", []Token{}},
		{"only separators", " .,:;\t\r", []Token{}},
		{"simple sentence", "The cat sat.", []Token{{"the", 1}, {"cat", 1}, {"sat", 1}}},
		{"two lines", "The cat sat.\nThe dog ran.", []Token{
			{"the", 1}, {"cat", 1}, {"sat", 1},
			{"the", 2}, {"dog", 2}, {"ran", 2},
		}},
		{"blank lines advance the count", "a\n\n\nb", []Token{{"a", 1}, {"b", 4}}},
		{"crlf", "one\r\ntwo\r\n", []Token{{"one", 1}, {"two", 2}}},
		{"unterminated last line", "x\ny", []Token{{"x", 1}, {"y", 2}}},
		{"punctuation kept inside words", "don't stop-now!", []Token{{"don't", 1}, {"stop-now!", 1}}},
		{"all separators split", "a,b;c:d.e\tf", []Token{{"a", 1}, {"b", 1}, {"c", 1}, {"d", 1}, {"e", 1}, {"f", 1}}},
		{"ascii fold only", "HeLLo ÄB", []Token{{"hello", 1}, {"Äb", 1}}},
		{"digits", "Route 66", []Token{{"route", 1}, {"66", 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestScanTruncatesLongWords(t *testing.T) {
	long := strings.Repeat("x", 300)
	var got []Token
	n, err := New(DefaultMaxWordLength).Scan(strings.NewReader(long+" tail"), func(tok Token) {
		got = append(got, tok)
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	assert.Equal(t, strings.Repeat("x", 255), got[0].Term)
	assert.Equal(t, "tail", got[1].Term)
}

func TestScanCustomLimit(t *testing.T) {
	tok := New(4)
	assert.Equal(t, 4, tok.MaxWordLength())
	var got []string
	_, err := tok.Scan(strings.NewReader("abcdefgh ab"), func(tk Token) {
		got = append(got, tk.Term)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "ab"}, got)
}

func TestScanLargeLimit(t *testing.T) {
	long := strings.Repeat("y", 1000)
	var got []Token
	_, err := New(1<<20).Scan(strings.NewReader("a "+long), func(tok Token) {
		got = append(got, tok)
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, long, got[1].Term)
}

func TestNewDefaultsLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxWordLength, New(0).MaxWordLength())
	assert.Equal(t, DefaultMaxWordLength, New(-1).MaxWordLength())
}

type failingReader struct {
	data string
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, io.ErrUnexpectedEOF
}

func TestScanPropagatesReadErrors(t *testing.T) {
	var got []Token
	n, err := New(0).Scan(&failingReader{data: "alpha beta\ngam"}, func(tok Token) {
		got = append(got, tok)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 2, n)
	assert.Equal(t, []Token{{"alpha", 1}, {"beta", 1}}, got)
}

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"long": strings.Repeat(`Information retrieval systems form the backbone of modern search
infrastructure. These systems combine tokenization, stemming, and stop word
removal to normalize text into searchable terms.
`, 50),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := Tokenize(text)
				_ = tokens
			}
		})
	}
}
