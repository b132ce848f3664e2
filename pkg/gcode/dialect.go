// G-code line classification
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package gcode

import (
	"fmt"
	"strings"
)

// Default command codes recognized by the tiler.
const (
	DefaultMotionPrefix      = "G1"
	DefaultMotionFamily      = "G"
	DefaultToolChangeCommand = "M117"
	StepperOffCommand        = "M84"
)

// DefaultToolMarkers are the tool-index suffixes that mark tool-change lines.
var DefaultToolMarkers = []string{"T1", "T2"}

// Dialect describes which line prefixes and suffixes carry structure.
type Dialect struct {
	// MotionPrefix is the first motion command; it ends the setup block.
	MotionPrefix string

	// MotionFamily is the prefix shared by every line kept in a tool section.
	MotionFamily string

	// ToolChangeCommand starts a tool-change marker line that splits sections.
	ToolChangeCommand string

	// ToolMarkers are matched against the end of a line.
	ToolMarkers []string
}

// DefaultDialect returns the dialect emitted by the supported slicer profile.
func DefaultDialect() Dialect {
	markers := make([]string, len(DefaultToolMarkers))
	copy(markers, DefaultToolMarkers)
	return Dialect{
		MotionPrefix:      DefaultMotionPrefix,
		MotionFamily:      DefaultMotionFamily,
		ToolChangeCommand: DefaultToolChangeCommand,
		ToolMarkers:       markers,
	}
}

// Validate checks that every field is usable for classification.
func (d Dialect) Validate() error {
	if d.MotionPrefix == "" {
		return fmt.Errorf("gcode: empty motion prefix")
	}
	if d.MotionFamily == "" {
		return fmt.Errorf("gcode: empty motion family")
	}
	if !strings.HasPrefix(d.MotionPrefix, d.MotionFamily) {
		return fmt.Errorf("gcode: motion prefix %q is not in motion family %q", d.MotionPrefix, d.MotionFamily)
	}
	if d.ToolChangeCommand == "" {
		return fmt.Errorf("gcode: empty tool change command")
	}
	if len(d.ToolMarkers) == 0 {
		return fmt.Errorf("gcode: no tool markers")
	}
	for _, m := range d.ToolMarkers {
		if m == "" {
			return fmt.Errorf("gcode: empty tool marker")
		}
	}
	return nil
}

// IsMotionStart reports whether line begins with the motion prefix.
func (d Dialect) IsMotionStart(line string) bool {
	return strings.HasPrefix(line, d.MotionPrefix)
}

// IsMotion reports whether line belongs to the motion family.
func (d Dialect) IsMotion(line string) bool {
	return strings.HasPrefix(line, d.MotionFamily)
}

// IsToolMarker reports whether line ends with one of the tool markers.
func (d Dialect) IsToolMarker(line string) bool {
	for _, m := range d.ToolMarkers {
		if strings.HasSuffix(line, m) {
			return true
		}
	}
	return false
}

// IsToolChange reports whether line begins with the tool change command.
// Only marker lines are checked against it.
func (d Dialect) IsToolChange(line string) bool {
	return strings.HasPrefix(line, d.ToolChangeCommand)
}
