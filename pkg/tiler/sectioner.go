// Setup, tool-change and motion classification
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tiler

import (
	"gcodetile/pkg/gcode"
)

// SectionOptions controls line classification.
type SectionOptions struct {
	Dialect gcode.Dialect
	Bounds  BoundsPolicy
}

// DefaultSectionOptions uses the default dialect and BoundsCompat.
func DefaultSectionOptions() SectionOptions {
	return SectionOptions{
		Dialect: gcode.DefaultDialect(),
		Bounds:  BoundsCompat,
	}
}

// Section classifies lines in a single forward pass.
//
// Lines before the first motion-prefix line are setup. After that, lines
// ending in a tool marker are kept as tool-change lines, and those that also
// start with the tool change command close the current section. Remaining
// motion-family lines are appended to the current section and their X/Y
// words feed the bounding box; everything else is dropped. Empty sections
// are never kept.
func Section(lines []string, opts SectionOptions) *Document {
	d := opts.Dialect
	doc := &Document{}
	doc.Stats.Lines = len(lines)

	setupDone := false
	var current ToolSection

	closeSection := func() {
		if len(current) > 0 {
			doc.Sections = append(doc.Sections, current)
		}
		current = nil
	}

	for _, line := range lines {
		if !setupDone {
			if !d.IsMotionStart(line) {
				doc.Setup = append(doc.Setup, line)
				continue
			}
			setupDone = true
		}

		if d.IsToolMarker(line) {
			doc.ToolChanges = append(doc.ToolChanges, line)
			if d.IsToolChange(line) {
				closeSection()
			}
			continue
		}

		if !d.IsMotion(line) {
			doc.Stats.Discarded++
			continue
		}

		current = append(current, line)
		coords := gcode.ParseCoords(line)
		doc.Stats.ParseMisses += coords.Misses
		doc.Bounds.Observe(coords, opts.Bounds)
	}
	closeSection()

	doc.Stats.Setup = len(doc.Setup)
	doc.Stats.ToolChanges = len(doc.ToolChanges)
	doc.Stats.Motion = doc.MotionLines()
	return doc
}
