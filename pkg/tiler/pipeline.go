// Read, section, tile, emit and write in one run
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package tiler

import (
	"context"
	"time"

	"gcodetile/pkg/errors"
	"gcodetile/pkg/log"
)

// LineStore reads and replaces whole line-oriented files.
type LineStore interface {
	ReadLines(ctx context.Context, path string) ([]string, error)
	WriteLines(ctx context.Context, path string, lines []string) error
}

// Observer receives per-run counters. *metrics.Recorder implements it.
type Observer interface {
	ObserveInput(lines, discarded, parseMisses int)
	ObserveSections(sections int)
	ObserveTiles(tiles int)
	ObserveOutput(lines int)
	ObserveStage(stage string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveInput(int, int, int) {}
func (nopObserver) ObserveSections(int) {}
func (nopObserver) ObserveTiles(int) {}
func (nopObserver) ObserveOutput(int) {}
func (nopObserver) ObserveStage(string, time.Duration) {}

// Stage names reported to the Observer.
const (
	StageRead    = "read"
	StageSection = "section"
	StageTile    = "tile"
	StageEmit    = "emit"
	StageWrite   = "write"
)

// Request is one tiling job.
type Request struct {
	Input  string
	Output string
	Grid   Grid
	DryRun bool // stop before writing
}

// Result reports what a run produced.
type Result struct {
	Sectioned *Document
	Tiled     *Document
	Lines     []string
	Written   bool
}

// Pipeline wires the stages to storage, logging and metrics.
type Pipeline struct {
	store    LineStore
	section  SectionOptions
	emitter  *Emitter
	observer Observer
	logger   *log.Logger
}

// NewPipeline creates a pipeline. A nil observer disables metrics and a nil
// logger uses the "tiler" child of the default logger.
func NewPipeline(store LineStore, opts SectionOptions, emitter *Emitter, observer Observer, logger *log.Logger) *Pipeline {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = log.GetLogger("tiler")
	}
	return &Pipeline{
		store:    store,
		section:  opts,
		emitter:  emitter,
		observer: observer,
		logger:   logger,
	}
}

func (p *Pipeline) timed(stage string, fn func()) {
	start := time.Now()
	fn()
	d := time.Since(start)
	p.observer.ObserveStage(stage, d)
	p.logger.WithFields(log.Fields{"stage": stage, "duration": d.String()}).Debug("stage complete")
}

// Run executes the pipeline. The output is only touched after every stage
// has succeeded.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Grid.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrUsage, "invalid grid")
	}
	if err := p.section.Dialect.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrProfile, "invalid dialect")
	}

	var (
		input   []string
		readErr error
	)
	p.timed(StageRead, func() {
		input, readErr = p.store.ReadLines(ctx, req.Input)
	})
	if readErr != nil {
		return nil, readErr
	}
	p.logger.WithFields(log.Fields{"path": req.Input, "lines": len(input)}).Info("read input")

	res := &Result{}
	p.timed(StageSection, func() {
		res.Sectioned = Section(input, p.section)
	})
	stats := res.Sectioned.Stats
	p.observer.ObserveInput(stats.Lines, stats.Discarded, stats.ParseMisses)
	p.observer.ObserveSections(len(res.Sectioned.Sections))
	Summarize(res.Sectioned).Log(p.logger)

	if len(res.Sectioned.Sections) == 0 {
		p.logger.Warn("no motion found after setup; output will only contain setup and finish blocks")
	}

	p.timed(StageTile, func() {
		res.Tiled = Tile(res.Sectioned, req.Grid)
	})
	p.observer.ObserveTiles(req.Grid.Cells() * len(res.Tiled.Sections))
	p.logger.WithFields(log.Fields{
		"repeat_x": req.Grid.RepeatX,
		"repeat_y": req.Grid.RepeatY,
		"padding":  req.Grid.Padding,
		"lines":    res.Tiled.MotionLines(),
	}).Info("tiled sections")

	p.timed(StageEmit, func() {
		res.Lines = p.emitter.Emit(res.Tiled)
	})

	if req.DryRun {
		p.logger.WithField("lines", len(res.Lines)).Info("dry run, output not written")
		return res, nil
	}

	var writeErr error
	p.timed(StageWrite, func() {
		writeErr = p.store.WriteLines(ctx, req.Output, res.Lines)
	})
	if writeErr != nil {
		return res, writeErr
	}
	res.Written = true
	p.observer.ObserveOutput(len(res.Lines))
	p.logger.WithFields(log.Fields{"path": req.Output, "lines": len(res.Lines)}).Info("wrote output")
	return res, nil
}
