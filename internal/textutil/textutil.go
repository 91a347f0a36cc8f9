// Package textutil holds the tokenization helpers shared by the
// term-frequency vectorizer, the summarizer, and the TUI highlighter.
package textutil

import (
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// Tokenize lowercases the text and returns its letter tokens.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// TokenSet returns the distinct lowercase tokens of the text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Sentences splits text on terminal punctuation. Text without any
// terminator comes back as a single trimmed sentence.
func Sentences(text string) []string {
	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	return sentences
}

// IsStopword reports whether the token is a common English stopword.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
