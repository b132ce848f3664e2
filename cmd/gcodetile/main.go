// gcodetile replicates the print of a multi-tool G-code file over an XY grid.
// Setup lines are kept once, every tool section is repeated RepeatX by
// RepeatY times, and a tool-change block is inserted between sections.
//
// Usage:
//
//	gcodetile [options] <input> <repeatX> <repeatY> <padding> <output>
//
// input and output are local paths or s3://bucket/key locations. Options
// must come before the positional arguments.
//
// Options:
//
//	-profile string       Tiler profile with dialect and boilerplate blocks
//	-bounds string        Bounding box policy: compat or running (overrides the profile)
//	-metrics-file string  Write run metrics in Prometheus text format
//	-log-level string     DEBUG, INFO, WARN or ERROR
//	-log-format string    text or json
//	-log-file string      Also write JSON logs to this rotating file
//	-dry-run              Section and tile without writing the output
//	-version              Print the version and exit
//
// S3 access is configured with GCODETILE_S3_ENDPOINT, GCODETILE_S3_REGION,
// GCODETILE_S3_ACCESS_KEY_ID, GCODETILE_S3_SECRET_ACCESS_KEY,
// GCODETILE_S3_USE_SSL and GCODETILE_S3_USE_PATH_STYLE.
//
// Examples:
//
//	# Four copies of each tool, 5mm apart
//	gcodetile part.gcode 2 2 5 plate.gcode
//
//	# Use a custom tool-change block and export metrics
//	gcodetile -profile dual.cfg -metrics-file /var/lib/node_exporter/gcodetile.prom \
//	    s3://prints/part.gcode 3 1 2.5 s3://prints/plate.gcode
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"

	"gcodetile/pkg/config"
	"gcodetile/pkg/errors"
	"gcodetile/pkg/log"
	"gcodetile/pkg/metrics"
	"gcodetile/pkg/storage"
	"gcodetile/pkg/tiler"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const usageLine = "Usage: gcodetile [options] <input> <repeatX> <repeatY> <padding> <output>"

type options struct {
	input  string
	output string
	grid   tiler.Grid

	profile     string
	bounds      string
	metricsFile string
	logLevel    string
	logFormat   string
	logFile     string
	dryRun      bool
	version     bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("gcodetile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.profile, "profile", "", "Tiler profile with dialect and boilerplate blocks")
	fs.StringVar(&opts.bounds, "bounds", "", "Bounding box policy: compat or running (overrides the profile)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format")
	fs.StringVar(&opts.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR")
	fs.StringVar(&opts.logFormat, "log-format", "", "text or json")
	fs.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this rotating file")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Section and tile without writing the output")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses flags and the five positional arguments. Invocation
// problems are returned as USAGE errors.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := newFlagSet(opts, stderr)
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrUsage, "invalid option")
	}
	if opts.version {
		return opts, nil
	}

	pos := fs.Args()
	if len(pos) != 5 {
		return nil, errors.UsageError("expected 5 arguments, got %d", len(pos))
	}
	opts.input, opts.output = pos[0], pos[4]
	if opts.input == "" || opts.output == "" {
		return nil, errors.UsageError("input and output must not be empty")
	}

	var err error
	if opts.grid.RepeatX, err = parseRepeat("repeatX", pos[1]); err != nil {
		return nil, err
	}
	if opts.grid.RepeatY, err = parseRepeat("repeatY", pos[2]); err != nil {
		return nil, err
	}
	padding, perr := strconv.ParseFloat(pos[3], 64)
	if perr != nil || math.IsNaN(padding) || math.IsInf(padding, 0) {
		return nil, errors.UsageError("padding must be a number, got %q", pos[3])
	}
	opts.grid.Padding = padding

	if opts.bounds != "" {
		if _, err := tiler.ParseBoundsPolicy(opts.bounds); err != nil {
			return nil, errors.Wrap(err, errors.ErrUsage, "invalid -bounds")
		}
	}
	return opts, nil
}

func parseRepeat(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.UsageError("%s must be an integer, got %q", name, s)
	}
	if n < 0 {
		return 0, errors.UsageError("%s must not be negative, got %d", name, n)
	}
	return n, nil
}

// setupLogger applies the logging flags to logger and returns a cleanup
// function for the log file.
func setupLogger(logger *log.Logger, opts *options) (func(), error) {
	if opts.logLevel != "" {
		logger.SetLevel(log.ParseLevel(opts.logLevel))
	}
	if opts.logFormat != "" {
		logger.SetFormat(log.ParseFormat(opts.logFormat))
	}
	if opts.logFile == "" {
		return func() {}, nil
	}
	rf, err := log.OpenRotatingFile(log.RotationConfig{Filename: opts.logFile})
	if err != nil {
		return nil, errors.OutputWriteError(opts.logFile, err)
	}
	logger.SetFile(rf)
	return func() {
		logger.Sync()
		rf.Close()
	}, nil
}

func loadProfile(opts *options) (*config.Profile, error) {
	profile := config.DefaultProfile()
	if opts.profile != "" {
		p, err := config.ParseProfile(opts.profile)
		if err != nil {
			return nil, errors.ProfileError(opts.profile, err)
		}
		profile = p
	}
	if opts.bounds != "" {
		policy, err := tiler.ParseBoundsPolicy(opts.bounds)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrUsage, "invalid -bounds")
		}
		profile.Bounds = policy
	}
	return profile, nil
}

// run executes one invocation and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, store tiler.LineStore) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return errors.ExitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, usageLine)
		return errors.ExitCode(err)
	}
	if opts.version {
		fmt.Fprintf(stdout, "gcodetile %s\n", version)
		return errors.ExitOK
	}

	base := log.New("gcodetile")
	base.SetWriter(stderr)
	log.ConfigureFromEnv(base)
	closeLog, err := setupLogger(base, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return errors.ExitCode(err)
	}
	defer closeLog()

	logger := base.WithPersistentFields(log.Fields{"run_id": uuid.New().String()})
	log.SetDefaultLogger(logger)

	profile, err := loadProfile(opts)
	if err != nil {
		logger.WithError(err).Error("cannot load profile")
		return errors.ExitCode(err)
	}
	logger.WithFields(log.Fields{
		"input":   opts.input,
		"output":  opts.output,
		"profile": opts.profile,
		"bounds":  profile.Bounds.String(),
		"version": version,
	}).Info("starting")

	if store == nil {
		storeLog := logger.WithPrefix("storage")
		store = storage.NewRouter(storage.NewLocalStore(storeLog), storage.EnvS3Factory(storeLog))
	}
	recorder := metrics.NewRecorder(nil)
	pipeline := tiler.NewPipeline(
		store,
		profile.SectionOptions(),
		tiler.NewEmitter(profile.Boilerplate),
		recorder,
		logger.WithPrefix("tiler"),
	)

	_, runErr := pipeline.Run(ctx, tiler.Request{
		Input:  opts.input,
		Output: opts.output,
		Grid:   opts.grid,
		DryRun: opts.dryRun,
	})

	// Metrics are exported for failed runs too.
	if opts.metricsFile != "" {
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			logger.WithError(err).Error("cannot export metrics")
			if runErr == nil {
				runErr = err
			}
		} else {
			logger.WithField("path", opts.metricsFile).Debug("exported metrics")
		}
	}

	if runErr != nil {
		logger.WithError(runErr).Error("tiling failed")
		return errors.ExitCode(runErr)
	}
	logger.Info("done")
	return errors.ExitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil)
	stop()
	os.Exit(code)
}
