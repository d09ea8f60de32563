// Package tokenize splits command lines into ordered tokens.
package tokenize

import (
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/pkg/errors"
)

// Whitespace holds the delimiters that separate words in a stage.
const Whitespace = " \t"

// Split breaks input on any rune found in delims.
//
// Tokens are returned left to right with surrounding whitespace trimmed.
// Runs of delimiters collapse and empty fragments are dropped, so the result
// never holds an empty string. Input with no delimiter yields a single token
// equal to the trimmed input, or nothing if that is empty.
func Split(input, delims string) []string {
	fragments := strings.FieldsFunc(input, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})

	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Fields returns the argument vector of a single stage: the program name
// followed by its arguments.
func Fields(stage string) []string {
	return Split(stage, Whitespace)
}

// QuotedFields splits a stage into words honoring POSIX quoting rules.
func QuotedFields(stage string) ([]string, error) {
	words, err := shlex.Split(stage, true)
	if err != nil {
		return nil, errors.Wrap(err, "unable to split words")
	}
	return words, nil
}
