// Human-readable report of a sectioned document
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tiler

import (
	"fmt"

	"gcodetile/pkg/log"
)

// previewLines is how many lines of each section a Summary keeps.
const previewLines = 3

// SectionSummary describes one tool section.
type SectionSummary struct {
	Tool    int // 1-based
	Lines   int
	Preview []string
}

// Summary is a compact report of a sectioned document.
type Summary struct {
	Stats      Stats
	Setup      []string
	Sections   []SectionSummary
	ToolChange []string // first tool-change lines
	Bounds     BoundingBox
}

func head(lines []string, n int) []string {
	if len(lines) < n {
		n = len(lines)
	}
	return append([]string(nil), lines[:n]...)
}

// Summarize builds a Summary of doc.
func Summarize(doc *Document) Summary {
	s := Summary{
		Stats:      doc.Stats,
		Setup:      append([]string(nil), doc.Setup...),
		ToolChange: head(doc.ToolChanges, previewLines),
		Bounds:     doc.Bounds,
	}
	for i, section := range doc.Sections {
		s.Sections = append(s.Sections, SectionSummary{
			Tool:    i + 1,
			Lines:   len(section),
			Preview: head(section, previewLines),
		})
	}
	return s
}

// Log writes the summary: counts and bounds at INFO, line previews at DEBUG.
func (s Summary) Log(logger *log.Logger) {
	logger.WithFields(log.Fields{
		"lines":        s.Stats.Lines,
		"setup":        s.Stats.Setup,
		"tool_changes": s.Stats.ToolChanges,
		"motion":       s.Stats.Motion,
		"discarded":    s.Stats.Discarded,
		"parse_misses": s.Stats.ParseMisses,
		"sections":     len(s.Sections),
	}).Info("sectioned input")

	for _, line := range s.Setup {
		logger.Debug("setup: %s", line)
	}
	for _, sec := range s.Sections {
		logger.WithField("lines", sec.Lines).Info(fmt.Sprintf("tool %d", sec.Tool))
		for _, line := range sec.Preview {
			logger.Debug(">>> %s", line)
		}
	}
	for _, line := range s.ToolChange {
		logger.Debug("tool change: %s", line)
	}

	if s.Stats.ParseMisses > 0 {
		logger.WithField("count", s.Stats.ParseMisses).Warn("skipped unparsable coordinates")
	}
	logger.WithFields(log.Fields{
		"width":  s.Bounds.Width(),
		"height": s.Bounds.Height(),
	}).Info("bounds " + s.Bounds.String())
}
