// Tiler profile loading
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import (
	"strings"

	"gcodetile/pkg/gcode"
	"gcodetile/pkg/tiler"
)

// Profile section names.
const (
	SectionTiler      = "tiler"
	SectionToolChange = "tool_change"
	SectionFinish     = "finish"
)

// Profile is everything a tiling run can take from a profile file.
type Profile struct {
	Dialect     gcode.Dialect
	Bounds      tiler.BoundsPolicy
	Boilerplate tiler.Boilerplate
}

// DefaultProfile returns the built-in dialect, bounds policy and blocks.
func DefaultProfile() *Profile {
	return &Profile{
		Dialect:     gcode.DefaultDialect(),
		Bounds:      tiler.BoundsCompat,
		Boilerplate: tiler.DefaultBoilerplate(),
	}
}

// SectionOptions returns the sectioner options for this profile.
func (p *Profile) SectionOptions() tiler.SectionOptions {
	return tiler.SectionOptions{Dialect: p.Dialect, Bounds: p.Bounds}
}

// ParseProfile loads a profile file. Missing sections and options keep
// their defaults; sections or options that are never read are an error.
func ParseProfile(path string) (*Profile, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return buildProfile(cfg)
}

// ParseProfileString is ParseProfile for in-memory data.
func ParseProfileString(data string) (*Profile, error) {
	cfg, err := LoadString(data)
	if err != nil {
		return nil, err
	}
	return buildProfile(cfg)
}

func buildProfile(cfg *Config) (*Profile, error) {
	p := DefaultProfile()

	if sec := cfg.GetSectionOptional(SectionTiler); sec != nil {
		if err := p.readTiler(sec); err != nil {
			return nil, err
		}
	}

	var err error
	if sec := cfg.GetSectionOptional(SectionToolChange); sec != nil {
		if p.Boilerplate.ToolChange, err = sec.GetLines("gcode", p.Boilerplate.ToolChange); err != nil {
			return nil, err
		}
	}
	if sec := cfg.GetSectionOptional(SectionFinish); sec != nil {
		if p.Boilerplate.Finish, err = sec.GetLines("gcode", p.Boilerplate.Finish); err != nil {
			return nil, err
		}
	}

	if err := cfg.CheckUnused(); err != nil {
		return nil, err
	}
	if err := p.Dialect.Validate(); err != nil {
		return nil, WrapError(SectionTiler, "", err)
	}
	return p, nil
}

func (p *Profile) readTiler(sec *Section) error {
	d := &p.Dialect
	var err error
	if d.MotionPrefix, err = sec.GetNonEmpty("motion_prefix", d.MotionPrefix); err != nil {
		return err
	}
	if d.MotionFamily, err = sec.GetNonEmpty("motion_family", d.MotionFamily); err != nil {
		return err
	}
	if d.ToolChangeCommand, err = sec.GetNonEmpty("tool_change_command", d.ToolChangeCommand); err != nil {
		return err
	}
	if d.ToolMarkers, err = sec.GetList("tool_markers", ",", d.ToolMarkers); err != nil {
		return err
	}
	if len(d.ToolMarkers) == 0 {
		return ErrInvalidValue(sec.GetName(), "tool_markers", "", "at least one marker")
	}

	name, err := sec.GetChoice("bounds", tiler.BoundsPolicyNames, p.Bounds.String())
	if err != nil {
		return err
	}
	if p.Bounds, err = tiler.ParseBoundsPolicy(name); err != nil {
		return WrapError(sec.GetName(), "bounds", err)
	}
	return nil
}

// String renders the profile in the file format ParseProfileString accepts.
func (p *Profile) String() string {
	var sb strings.Builder
	sb.WriteString("[" + SectionTiler + "]\n")
	sb.WriteString("motion_prefix: " + p.Dialect.MotionPrefix + "\n")
	sb.WriteString("motion_family: " + p.Dialect.MotionFamily + "\n")
	sb.WriteString("tool_change_command: " + p.Dialect.ToolChangeCommand + "\n")
	sb.WriteString("tool_markers: " + strings.Join(p.Dialect.ToolMarkers, ", ") + "\n")
	sb.WriteString("bounds: " + p.Bounds.String() + "\n")
	writeBlock(&sb, SectionToolChange, p.Boilerplate.ToolChange)
	writeBlock(&sb, SectionFinish, p.Boilerplate.Finish)
	return sb.String()
}

func writeBlock(sb *strings.Builder, section string, lines []string) {
	sb.WriteString("\n[" + section + "]\n")
	sb.WriteString("gcode:\n")
	for _, line := range lines {
		sb.WriteString("  " + line + "\n")
	}
}
