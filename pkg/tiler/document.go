// Package tiler splits a G-code program into setup, tool-change and motion
// sections, replicates the motion sections over a grid and reassembles the
// result.
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package tiler

// ToolSection is the run of motion lines printed by one tool.
type ToolSection []string

// Stats counts how input lines were classified.
type Stats struct {
	Lines       int // input lines
	Setup       int
	ToolChanges int
	Motion      int
	Discarded   int
	ParseMisses int // axis words that did not parse
}

// Document is a sectioned G-code program.
type Document struct {
	Setup       []string
	ToolChanges []string
	Sections    []ToolSection
	Bounds      BoundingBox
	Stats       Stats
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{
		Setup:       append([]string(nil), d.Setup...),
		ToolChanges: append([]string(nil), d.ToolChanges...),
		Sections:    make([]ToolSection, len(d.Sections)),
		Bounds:      d.Bounds,
		Stats:       d.Stats,
	}
	for i, s := range d.Sections {
		out.Sections[i] = append(ToolSection(nil), s...)
	}
	return out
}

// MotionLines returns the number of lines across all sections.
func (d *Document) MotionLines() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s)
	}
	return n
}
