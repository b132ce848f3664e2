// Coordinate extraction and translation for motion lines
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import (
	"math"
	"strconv"
	"strings"

	"gcodetile/pkg/pool"
)

// Axis markers for the two translated axes.
const (
	AxisX = "X"
	AxisY = "Y"
)

// CoordDecimals is the precision of every rewritten coordinate.
const CoordDecimals = 3

// Coords holds the X/Y words found on a single line.
type Coords struct {
	X, Y       float64
	HasX, HasY bool

	// Misses counts axis words whose value did not parse.
	Misses int
}

// ParseAxis parses an axis word such as "X12.5". ok is false when the token
// does not start with marker or its value is not a finite number.
func ParseAxis(token, marker string) (float64, bool) {
	if !strings.HasPrefix(token, marker) {
		return 0, false
	}
	v, err := strconv.ParseFloat(token[len(marker):], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatAxis renders an axis word with CoordDecimals places.
func FormatAxis(marker string, v float64) string {
	return marker + strconv.FormatFloat(v, 'f', CoordDecimals, 64)
}

// ParseCoords scans the tokens of line for X and Y words. When an axis
// appears more than once the last word decides, including a word that fails
// to parse.
func ParseCoords(line string) Coords {
	var c Coords
	for _, tok := range Tokenize(line) {
		switch {
		case strings.HasPrefix(tok.Text, AxisX):
			c.X, c.HasX = ParseAxis(tok.Text, AxisX)
			if !c.HasX {
				c.Misses++
			}
		case strings.HasPrefix(tok.Text, AxisY):
			c.Y, c.HasY = ParseAxis(tok.Text, AxisY)
			if !c.HasY {
				c.Misses++
			}
		}
	}
	return c
}

// Translate shifts the X and Y words of line by dx and dy. Only the bytes of
// parsable axis words change; whitespace, other words and malformed axis
// words are copied through as-is.
func Translate(line string, dx, dy float64) string {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return line
	}

	buf := pool.GetByteBuffer()
	defer pool.PutByteBuffer(buf)
	buf.Grow(len(line) + 8)
	prev := 0
	for _, tok := range tokens {
		buf.WriteString(line[prev:tok.Start])
		prev = tok.End

		if v, ok := ParseAxis(tok.Text, AxisX); ok {
			buf.WriteString(AxisX)
			buf.AppendFloat(v+dx, CoordDecimals)
			continue
		}
		if v, ok := ParseAxis(tok.Text, AxisY); ok {
			buf.WriteString(AxisY)
			buf.AppendFloat(v+dy, CoordDecimals)
			continue
		}
		buf.WriteString(tok.Text)
	}
	buf.WriteString(line[prev:])
	return buf.String()
}
