// Package summarizer builds extractive summaries by word frequency.
//
// A document's non-stop words are counted, each sentence is scored by the
// sum of its words' counts, and the highest scoring sentences are returned
// in the order they appear in the document.
package summarizer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSentenceCount is the summary length used when the caller has no preference.
const DefaultSentenceCount = 3

// minSentenceLen is the trimmed length a segment must exceed to be a candidate.
const minSentenceLen = 10

// Sentence is a summary candidate.
type Sentence struct {
	Text  string `json:"text"`  // Trimmed sentence text, terminator removed
	Index int    `json:"index"` // Position among candidates, in document order
	Score int    `json:"score"` // Sum of frequency-table values of its words
}

// Summarize returns up to sentenceCount of the most representative sentences
// of text, in document order, joined with ". " and terminated by ".".
//
// Empty text yields "". Text with no sentence longer than ten characters
// yields ".". Summarize never fails and holds no state between calls.
func Summarize(text string, sentenceCount int) string {
	if text == "" {
		return ""
	}
	return Render(Select(Rank(text), sentenceCount))
}

// Rank segments text into candidate sentences and scores them against the
// document's word frequencies. Candidates are returned in document order.
func Rank(text string) []Sentence {
	freq := Frequencies(text)

	var sentences []Sentence
	for _, seg := range strings.FieldsFunc(text, isTerminator) {
		seg = strings.TrimSpace(seg)
		if utf8.RuneCountInString(seg) <= minSentenceLen {
			continue
		}
		score := 0
		for _, w := range tokenize(seg) {
			score += freq[w]
		}
		sentences = append(sentences, Sentence{
			Text:  seg,
			Index: len(sentences),
			Score: score,
		})
	}
	return sentences
}

// Frequencies counts every non-stop word of text after normalization.
func Frequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range tokenize(text) {
		if stopWords.has(w) {
			continue
		}
		freq[w]++
	}
	return freq
}

// Select picks the n highest scoring sentences and returns them in document
// order. Equal scores keep their relative document order.
func Select(sentences []Sentence, n int) []Sentence {
	if n <= 0 || len(sentences) == 0 {
		return nil
	}

	ranked := make([]Sentence, len(sentences))
	copy(ranked, sentences)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Index < ranked[j].Index })
	return ranked
}

// Render joins sentence texts with ". " and appends a final ".".
func Render(sentences []Sentence) string {
	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}
	return strings.Join(texts, ". ") + "."
}

// tokenize keeps ASCII letters and whitespace, lowercases, and splits on
// whitespace runs.
func tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case unicode.IsSpace(r):
			return r
		}
		return -1
	}, s)
	return strings.Fields(cleaned)
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
