package graph

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/OFFIS-RIT/kgraph/pkg/common"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"
)

// Chunker splits document text into sentence-aligned units.
//
// A unit holds at most MaxSentences sentences. When MaxTokens is positive the
// unit text is additionally bounded by the token count of TokenEncoder; a
// single sentence longer than the bound still forms its own unit.
type Chunker struct {
	MaxSentences int
	TokenEncoder string
	MaxTokens    int
}

// Split returns the ordered units of text. Blank text yields no units and
// no unit is ever empty.
func (c Chunker) Split(documentID, text string) ([]common.Unit, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	maxSentences := c.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 10
	}

	var countTokens func(string) int
	if c.MaxTokens > 0 {
		enc, err := tiktoken.GetEncoding(c.TokenEncoder)
		if err != nil {
			return nil, fmt.Errorf("failed to load token encoder %q: %w", c.TokenEncoder, err)
		}
		countTokens = func(s string) int {
			return len(enc.Encode(s, nil, nil))
		}
	}

	var units []common.Unit
	chunkStart := -1
	chunkEnd := -1

	flushChunk := func() error {
		if chunkStart < 0 || chunkEnd <= chunkStart {
			return nil
		}
		uID, err := gonanoid.New()
		if err != nil {
			return err
		}
		units = append(units, common.Unit{
			ID:         uID,
			DocumentID: documentID,
			Start:      chunkStart,
			End:        chunkEnd,
			Text:       strings.Join(sentences[chunkStart:chunkEnd], " "),
		})
		chunkStart = -1
		chunkEnd = -1
		return nil
	}

	for i := range sentences {
		if chunkStart < 0 {
			chunkStart = i
			chunkEnd = i + 1
			continue
		}

		fits := i+1-chunkStart <= maxSentences
		if fits && countTokens != nil {
			candidate := strings.Join(sentences[chunkStart:i+1], " ")
			fits = countTokens(candidate) <= c.MaxTokens
		}

		if fits {
			chunkEnd = i + 1
			continue
		}
		if err := flushChunk(); err != nil {
			return nil, err
		}
		chunkStart = i
		chunkEnd = i + 1
	}

	if err := flushChunk(); err != nil {
		return nil, err
	}

	return units, nil
}

// SplitSentences splits text into whitespace-normalized sentences. Line
// breaks always end a sentence.
func SplitSentences(text string) []string {
	var sentences []string
	for line := range strings.SplitSeq(text, "\n") {
		for _, sentence := range splitLineIntoSentences(strings.TrimSpace(line)) {
			if normalized := strings.Join(strings.Fields(sentence), " "); normalized != "" {
				sentences = append(sentences, normalized)
			}
		}
	}
	return sentences
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isCloser(b byte) bool {
	return b == '"' || b == '\'' || b == ')' || b == ']' || b == '}'
}

// splitLineIntoSentences breaks a line after runs of terminal punctuation,
// including trailing quotes and brackets, that are followed by whitespace or
// the end of the line. A leading "1." style listing marker does not end a
// sentence.
func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])
		if !isTerminal(line[i]) {
			continue
		}

		if line[i] == '.' && isListingMarker(current.String()) {
			continue
		}

		j := i + 1
		for j < len(line) && isTerminal(line[j]) {
			current.WriteByte(line[j])
			j++
		}
		for j < len(line) && isCloser(line[j]) {
			current.WriteByte(line[j])
			j++
		}
		if j < len(line) && !startsWithSpace(line[j:]) {
			i = j - 1
			continue
		}

		if sentence := strings.TrimSpace(current.String()); sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
		i = j - 1
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		sentences = append(sentences, remaining)
	}

	return sentences
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

// isListingMarker reports whether s is a bare number followed by a period,
// such as "1." or "12.".
func isListingMarker(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '.' {
		return false
	}
	for _, r := range s[:len(s)-1] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
