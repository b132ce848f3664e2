// Grid replication of tool sections
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tiler

import (
	"fmt"

	"gcodetile/pkg/gcode"
)

// Grid describes how many copies to lay out and how far apart.
type Grid struct {
	RepeatX int
	RepeatY int
	Padding float64 // gap between copies; negative overlaps them
}

// Validate rejects negative repeat counts.
func (g Grid) Validate() error {
	if g.RepeatX < 0 {
		return fmt.Errorf("tiler: repeat X must not be negative, got %d", g.RepeatX)
	}
	if g.RepeatY < 0 {
		return fmt.Errorf("tiler: repeat Y must not be negative, got %d", g.RepeatY)
	}
	return nil
}

// Cells returns the number of copies per section.
func (g Grid) Cells() int {
	if g.RepeatX <= 0 || g.RepeatY <= 0 {
		return 0
	}
	return g.RepeatX * g.RepeatY
}

// Offset returns the translation of cell (cellX, cellY) for a pattern of
// the given width and height.
func (g Grid) Offset(width, height float64, cellX, cellY int) (dx, dy float64) {
	return float64(cellX) * (width + g.Padding), float64(cellY) * (height + g.Padding)
}

// TileSection lays out copies of section column by column: every row of
// cellX=0 first, then cellX=1, and so on.
func TileSection(section ToolSection, width, height float64, grid Grid) ToolSection {
	out := make(ToolSection, 0, len(section)*grid.Cells())
	for cellX := 0; cellX < grid.RepeatX; cellX++ {
		for cellY := 0; cellY < grid.RepeatY; cellY++ {
			dx, dy := grid.Offset(width, height, cellX, cellY)
			for _, line := range section {
				out = append(out, gcode.Translate(line, dx, dy))
			}
		}
	}
	return out
}

// Tile returns a copy of doc whose sections are replaced by their tiled
// versions. Every section uses the pitch of the document-wide bounding box.
// doc itself is left untouched.
func Tile(doc *Document, grid Grid) *Document {
	out := doc.Clone()
	width, height := doc.Bounds.Width(), doc.Bounds.Height()
	for i, section := range doc.Sections {
		out.Sections[i] = TileSection(section, width, height, grid)
	}
	return out
}
