// Package storage reads and writes whole G-code files on the local
// filesystem or in S3-compatible object stores.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package storage

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxLineLength bounds a single input line.
const MaxLineLength = 16 * 1024 * 1024

// DecodeLines reads r as UTF-8 text, drops a leading byte order mark and
// splits it on LF or CRLF. A final line terminator does not produce an
// empty trailing line.
func DecodeLines(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 64*1024), MaxLineLength)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// EncodeLines joins lines with LF and no trailing newline.
func EncodeLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}
