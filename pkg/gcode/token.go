// Positional G-code tokenizer
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

// Token is a whitespace-delimited word of a line along with its byte span.
type Token struct {
	Text  string
	Start int
	End   int
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// Tokenize splits line on runs of spaces and tabs. Offsets index into line,
// so callers can rebuild it with the separators untouched.
func Tokenize(line string) []Token {
	var tokens []Token
	pos := 0
	for pos < len(line) {
		for pos < len(line) && isBlank(line[pos]) {
			pos++
		}
		if pos >= len(line) {
			break
		}
		start := pos
		for pos < len(line) && !isBlank(line[pos]) {
			pos++
		}
		tokens = append(tokens, Token{Text: line[start:pos], Start: start, End: pos})
	}
	return tokens
}
