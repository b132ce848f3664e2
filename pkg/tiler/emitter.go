// Output assembly
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tiler

import (
	"strings"

	"gcodetile/pkg/gcode"
)

// BlockSeparator is emitted between blocks. It is itself a newline, so once
// lines are joined each separator shows up as two empty lines.
const BlockSeparator = "\n"

// DefaultToolChangeBlock parks the head, pauses for a manual tool swap and
// wiggles Z to re-seat the new tool.
var DefaultToolChangeBlock = []string{
	";Custom tool change",
	"G1 Z40 F2000",
	"G1 X0 Y0 F2000",
	"M117 Change Tool",
	"M25",
	"G1 Z35 F400",
	"G1 Z40 F400",
	"G1 Z35 F400",
	"G1 Z40 F400",
}

// DefaultFinishBlock disables the steppers.
var DefaultFinishBlock = []string{gcode.StepperOffCommand}

// Boilerplate holds the fixed blocks injected by the Emitter.
type Boilerplate struct {
	ToolChange []string
	Finish     []string
}

// DefaultBoilerplate returns copies of the default blocks.
func DefaultBoilerplate() Boilerplate {
	return Boilerplate{
		ToolChange: append([]string(nil), DefaultToolChangeBlock...),
		Finish:     append([]string(nil), DefaultFinishBlock...),
	}
}

// Emitter reassembles a Document into output lines.
type Emitter struct {
	boilerplate Boilerplate
}

// NewEmitter creates an Emitter injecting b.
func NewEmitter(b Boilerplate) *Emitter {
	return &Emitter{boilerplate: b}
}

// Boilerplate returns the blocks this emitter injects.
func (e *Emitter) Boilerplate() Boilerplate {
	return e.boilerplate
}

// Emit returns setup, then each section followed by a separator, with the
// tool-change block between consecutive sections, then the finish block.
func (e *Emitter) Emit(doc *Document) []string {
	n := len(doc.Setup) + 1 + doc.MotionLines() + 2*len(doc.Sections) +
		len(doc.Sections)*len(e.boilerplate.ToolChange) + len(e.boilerplate.Finish)
	out := make([]string, 0, n)

	out = append(out, doc.Setup...)
	out = append(out, BlockSeparator)
	for i, section := range doc.Sections {
		out = append(out, section...)
		out = append(out, BlockSeparator)
		if i < len(doc.Sections)-1 {
			out = append(out, e.boilerplate.ToolChange...)
			out = append(out, BlockSeparator)
		}
	}
	out = append(out, e.boilerplate.Finish...)
	return out
}

// JoinLines joins lines with "\n" and no trailing newline.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
