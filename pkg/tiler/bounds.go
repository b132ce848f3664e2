// Bounding box accumulation for motion lines
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tiler

import (
	"fmt"
	"strconv"
	"strings"

	"gcodetile/pkg/gcode"
)

// BoundsPolicy selects how observed coordinates update a BoundingBox.
type BoundsPolicy int

const (
	// BoundsCompat reproduces the legacy tiler output:
	// a value lowers min when it is below it, and only otherwise may raise
	// max. The first value on an axis sets min alone, and a value that
	// lowers min never touches max.
	BoundsCompat BoundsPolicy = iota

	// BoundsRunning keeps a conventional running min/max.
	BoundsRunning
)

// BoundsPolicyNames lists the accepted spellings, in policy order.
var BoundsPolicyNames = []string{"compat", "running"}

func (p BoundsPolicy) String() string {
	if int(p) >= 0 && int(p) < len(BoundsPolicyNames) {
		return BoundsPolicyNames[p]
	}
	return "unknown"
}

// ParseBoundsPolicy parses "compat" or "running".
func ParseBoundsPolicy(s string) (BoundsPolicy, error) {
	for i, name := range BoundsPolicyNames {
		if strings.EqualFold(s, name) {
			return BoundsPolicy(i), nil
		}
	}
	return BoundsCompat, fmt.Errorf("tiler: unknown bounds policy %q (valid: %v)", s, BoundsPolicyNames)
}

// Bound is an optional coordinate.
type Bound struct {
	Value float64
	Set   bool
}

func (b Bound) String() string {
	if !b.Set {
		return "unset"
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// Extent is the observed range along one axis.
type Extent struct {
	Min, Max Bound
}

// Observe folds v into the extent according to policy.
func (e *Extent) Observe(v float64, policy BoundsPolicy) {
	switch policy {
	case BoundsRunning:
		if !e.Min.Set || v < e.Min.Value {
			e.Min = Bound{Value: v, Set: true}
		}
		if !e.Max.Set || v > e.Max.Value {
			e.Max = Bound{Value: v, Set: true}
		}
	default:
		if !e.Min.Set || v < e.Min.Value {
			e.Min = Bound{Value: v, Set: true}
		} else if !e.Max.Set || v > e.Max.Value {
			e.Max = Bound{Value: v, Set: true}
		}
	}
}

// Size returns Max-Min, or 0 while either end is unset.
func (e Extent) Size() float64 {
	if !e.Min.Set || !e.Max.Set {
		return 0
	}
	return e.Max.Value - e.Min.Value
}

// BoundingBox is the XY extent of every motion coordinate seen so far.
type BoundingBox struct {
	X, Y Extent
}

// Observe folds the coordinates of one line into the box.
func (b *BoundingBox) Observe(c gcode.Coords, policy BoundsPolicy) {
	if c.HasX {
		b.X.Observe(c.X, policy)
	}
	if c.HasY {
		b.Y.Observe(c.Y, policy)
	}
}

// Width is the tiling pitch along X before padding.
func (b BoundingBox) Width() float64 {
	return b.X.Size()
}

// Height is the tiling pitch along Y before padding.
func (b BoundingBox) Height() float64 {
	return b.Y.Size()
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("min=[%s, %s] max=[%s, %s]", b.X.Min, b.Y.Min, b.X.Max, b.Y.Max)
}
