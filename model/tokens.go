package model

import "strings"

// boundaryPunct is stripped from both ends of a token, never from its middle.
const boundaryPunct = ",.:;?![]"

// Tokenize splits text on whitespace, trims boundary punctuation and lowercases
// each token. Tokens that consist only of punctuation are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if tok := NormalizeToken(f); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// NormalizeToken applies the Tokenize rules to a single word.
func NormalizeToken(word string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(word), boundaryPunct))
}
