// Package main provides the typegraphc command: a one-shot driver over
// typegraph/pipeline that reads one or more documents from disk (or
// stdin) and prints the resulting canonical graph's names and shape as
// JSON, since no code renderer ships with this module.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kestrel-oss/typegraph/input"
	"github.com/kestrel-oss/typegraph/namer"
	"github.com/kestrel-oss/typegraph/typegraph/pipeline"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "typegraphc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("typegraphc", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		lang                = fs.StringP("lang", "l", "go", "target language name (go, typescript, java, schema)")
		mode                = fs.String("mode", "sample", "input kind: sample or schema")
		topLevel            = fs.String("top-level", "Root", "name of the single top-level type")
		strictJSON          = fs.Bool("strict-json", false, "reject jsonc comments and trailing commas in sample and schema input")
		combineClasses      = fs.Bool("combine-classes", true, "merge same-shaped classes observed across samples")
		inferMaps           = fs.Bool("infer-maps", true, "collapse uniform-valued classes into maps")
		inferEnums          = fs.Bool("infer-enums", true, "promote small fixed string sets to enums")
		inferDates          = fs.Bool("infer-dates", true, "recognize date/time/date-time formatted strings")
		inferIntegerStrings = fs.Bool("infer-integer-strings", true, "recognize digit-only strings as integer strings")
		alphabetize         = fs.Bool("alphabetize-properties", false, "sort class properties by name in the final graph")
		allOptional         = fs.Bool("all-properties-optional", false, "mark every class property optional regardless of observation")
		logLevel            = fs.String("log-level", "warn", "log level: error|warn|info|debug")
		logFile             = fs.String("log-file", "", "log file path (empty to log to stderr)")
		showVer             = fs.BoolP("version", "V", false, "print version and exit")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: typegraphc [options] [file ...]\n\n")
		fmt.Fprintf(os.Stderr, "Reads JSON sample or schema documents (stdin if no files given),\n")
		fmt.Fprintf(os.Stderr, "runs the type graph pipeline, and prints the named graph as JSON.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.SetOutput(os.Stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		fs.Usage()
		return fmt.Errorf("parse flags: %w", err)
	}

	if *showVer {
		fmt.Printf("typegraphc %s\n", version)
		return nil
	}

	logger, cleanup, err := setupLogger(*logLevel, *logFile)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer cleanup()

	logger.Info("starting typegraphc", slog.String("version", version), slog.String("lang", *lang))

	data, err := buildInputData(*mode, *topLevel, *strictJSON, fs.Args())
	if err != nil {
		return err
	}

	opts := pipeline.NewOptions(*lang, data)
	opts.CombineClasses = *combineClasses
	opts.InferMaps = *inferMaps
	opts.InferEnums = *inferEnums
	opts.InferDates = *inferDates
	opts.InferIntegerStrings = *inferIntegerStrings
	opts.AlphabetizeProperties = *alphabetize
	opts.AllPropertiesOptional = *allOptional
	opts.NoRender = true
	opts.Logger = logger

	resultCh := make(chan runResult, 1)
	ctx, cancel := signalContext()
	defer cancel()

	go func() {
		out, err := pipeline.Run(ctx, opts)
		resultCh <- runResult{out: out, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return res.err
		}
		return printOutput(os.Stdout, res.out)
	case <-ctx.Done():
		logger.Warn("interrupted, waiting for pipeline run to unwind")
		select {
		case res := <-resultCh:
			if res.err != nil {
				return res.err
			}
			return printOutput(os.Stdout, res.out)
		case <-time.After(5 * time.Second):
			return errors.New("pipeline run did not stop in time")
		}
	}
}

type runResult struct {
	out *pipeline.Output
	err error
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func buildInputData(mode, topLevel string, strictJSON bool, files []string) (input.Data, error) {
	readers, err := readInputs(files)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	switch mode {
	case "sample":
		r := input.NewSampleReader(topLevel, strictJSON)
		for _, doc := range readers {
			if err := r.AddSample(doc); err != nil {
				return nil, err
			}
		}
		return r, nil
	case "schema":
		r := input.NewSchemaReader(topLevel, strictJSON)
		if len(readers) != 1 {
			return nil, fmt.Errorf("schema mode expects exactly one input document, got %d", len(readers))
		}
		if err := r.SetSchema(readers[0]); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown -mode %q: want sample or schema", mode)
	}
}

func readInputs(files []string) ([][]byte, error) {
	if len(files) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}
	out := make([][]byte, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// printOutput handles both the usual case (a named graph, no renderer
// configured) and the schema-passthrough fast path, which never builds a
// graph at all and instead carries its pretty-printed output directly in
// Results.
func printOutput(w io.Writer, out *pipeline.Output) error {
	if out.Graph == nil {
		for _, res := range out.Results {
			for _, line := range res.Lines {
				fmt.Fprintln(w, line)
			}
		}
		return nil
	}
	return printGraph(w, out.Graph)
}

func printGraph(w io.Writer, named *namer.NamedTypeGraph) error {
	summary := make(map[string]string, len(named.Graph.TopLevels()))
	for _, tl := range named.Graph.TopLevels() {
		summary[tl.Name] = named.NameOf(tl.Type)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func setupLogger(level, logFile string) (*slog.Logger, func(), error) {
	var slogLevel slog.Level
	switch level {
	case "error":
		slogLevel = slog.LevelError
	case "warn":
		slogLevel = slog.LevelWarn
	case "info":
		slogLevel = slog.LevelInfo
	case "debug":
		slogLevel = slog.LevelDebug
	default:
		return nil, nil, fmt.Errorf("invalid log level: %q", level)
	}

	var w io.Writer
	cleanup := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = func() { _ = f.Close() }
	} else {
		w = os.Stderr
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel})
	return slog.New(handler), cleanup, nil
}
