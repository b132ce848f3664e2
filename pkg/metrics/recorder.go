// Run metrics for the tiler
//
// Each run gets its own registry. The CLI exports it in the Prometheus text
// format for the node_exporter textfile collector.
//
// Copyright (C) 2026 Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package metrics records per-run tiling metrics with the Prometheus client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gcodetile/pkg/errors"
)

// Namespace prefixes every metric name.
const Namespace = "gcodetile"

// StageBuckets covers sub-millisecond stages up to slow object-store
// transfers.
var StageBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30}

// Recorder holds the metrics of one run.
type Recorder struct {
	registry *prometheus.Registry

	LinesRead     prometheus.Counter
	LinesDiscard  prometheus.Counter
	ParseMisses   prometheus.Counter
	ToolSections  prometheus.Gauge
	Tiles         prometheus.Counter
	LinesWritten  prometheus.Counter
	StageDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder on a fresh registry. constLabels are added
// to every metric and may be nil.
func NewRecorder(constLabels prometheus.Labels) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		LinesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   Namespace,
			Name:        "lines_read_total",
			Help:        "Input lines read",
			ConstLabels: constLabels,
		}),
		LinesDiscard: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   Namespace,
			Name:        "lines_discarded_total",
			Help:        "Input lines dropped as neither setup, tool change nor motion",
			ConstLabels: constLabels,
		}),
		ParseMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   Namespace,
			Name:        "coordinate_parse_misses_total",
			Help:        "X/Y words whose value could not be parsed",
			ConstLabels: constLabels,
		}),
		ToolSections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   Namespace,
			Name:        "tool_sections",
			Help:        "Tool sections found in the input",
			ConstLabels: constLabels,
		}),
		Tiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   Namespace,
			Name:        "tiles_total",
			Help:        "Section copies placed on the grid",
			ConstLabels: constLabels,
		}),
		LinesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   Namespace,
			Name:        "lines_written_total",
			Help:        "Output lines written",
			ConstLabels: constLabels,
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   Namespace,
			Name:        "stage_duration_seconds",
			Help:        "Time spent in each pipeline stage",
			Buckets:     StageBuckets,
			ConstLabels: constLabels,
		}, []string{"stage"}),
	}
}

// Registry returns the registry holding the run's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveInput records the classification counts of the input.
func (r *Recorder) ObserveInput(lines, discarded, parseMisses int) {
	r.LinesRead.Add(float64(lines))
	r.LinesDiscard.Add(float64(discarded))
	r.ParseMisses.Add(float64(parseMisses))
}

// ObserveSections records the number of tool sections.
func (r *Recorder) ObserveSections(sections int) {
	r.ToolSections.Set(float64(sections))
}

// ObserveTiles records placed section copies.
func (r *Recorder) ObserveTiles(tiles int) {
	r.Tiles.Add(float64(tiles))
}

// ObserveOutput records written lines.
func (r *Recorder) ObserveOutput(lines int) {
	r.LinesWritten.Add(float64(lines))
}

// ObserveStage records the duration of one pipeline stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.MetricsError(path, err)
	}
	return nil
}
