// Command readrows assembles rows from chunk streams: acceptance fixtures, recordings, or a
// running chunk server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/litetable/litetable-readrows/internal/acceptance"
	"github.com/litetable/litetable-readrows/internal/observability"
	"github.com/litetable/litetable-readrows/internal/readrows"
	"github.com/litetable/litetable-readrows/internal/recorder"
	"github.com/litetable/litetable-readrows/internal/server/grpc"
	"github.com/rs/zerolog/log"
)

var errAcceptanceFailed = errors.New("acceptance failures")

type options struct {
	fixture   string
	test      string
	recording string
	addr      string
	name      string
	recordDir string
	strict    bool
	debug     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("readrows", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.fixture, "fixture", "", "acceptance fixture file to run")
	fs.StringVar(&o.test, "test", "", "run only the named fixture test")
	fs.StringVar(&o.recording, "recording", "", "recording file to assemble")
	fs.StringVar(&o.addr, "addr", "", "chunk server host:port to scan")
	fs.StringVar(&o.name, "name", "", "recording name to request from -addr")
	fs.StringVar(&o.recordDir, "record", "", "record the scanned chunks under this directory")
	fs.BoolVar(&o.strict, "strict", false, "enable strict sequence checks")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	modes := 0
	for _, set := range []bool{o.fixture != "", o.recording != "", o.addr != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return nil, errors.New("exactly one of -fixture, -recording or -addr is required")
	}
	if o.addr != "" && o.name == "" {
		return nil, errors.New("-name is required with -addr")
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	observability.InitLogger("readrows", true, o.debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		log.Error().Err(err).Msg("readrows failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, stdout io.Writer) error {
	switch {
	case o.fixture != "":
		return runFixture(o, stdout)
	case o.recording != "":
		src, closer, err := recorder.Load(o.recording)
		if err != nil {
			return err
		}
		defer closer.Close()
		return printRows(src, o.strict, stdout)
	default:
		return scan(ctx, o, stdout)
	}
}

func runFixture(o *options, stdout io.Writer) error {
	f, err := acceptance.Load(o.fixture)
	if err != nil {
		return err
	}

	if o.test != "" {
		tc, ok := f.Find(o.test)
		if !ok {
			return fmt.Errorf("test %q not found in %s", o.test, o.fixture)
		}
		f = &acceptance.File{Tests: []*acceptance.TestCase{tc}}
	}

	failures := acceptance.RunAll(f, o.strict)
	names := make([]string, 0, len(f.Tests))
	for _, tc := range f.Tests {
		names = append(names, tc.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err, failed := failures[name]; failed {
			fmt.Fprintf(stdout, "FAIL %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(stdout, "PASS %s\n", name)
	}
	fmt.Fprintf(stdout, "%d passed, %d failed\n", len(names)-len(failures), len(failures))

	if len(failures) > 0 {
		return fmt.Errorf("%w: %d of %d", errAcceptanceFailed, len(failures), len(names))
	}
	return nil
}

func scan(ctx context.Context, o *options, stdout io.Writer) error {
	client, err := grpc.NewClient(&grpc.ClientConfig{Target: o.addr})
	if err != nil {
		return err
	}
	defer client.Close()

	src, err := client.ReadRows(ctx, o.name)
	if err != nil {
		return err
	}

	if o.recordDir != "" {
		rec, err := record(o.recordDir, o.name)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close recording")
			}
		}()
		src = rec.Wrap(src)
	}

	return printRows(src, o.strict, stdout)
}

// record starts a recording named after the scanned recording in the store at dir, so the
// servers can replay it by the same name.
func record(dir, name string) (*recorder.Recorder, error) {
	store, err := recorder.NewStore(dir)
	if err != nil {
		return nil, err
	}
	rec, err := store.Create(name)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", rec.Path()).Msg("recording scan")
	return rec, nil
}

// printRows writes one JSON line per row. Sequence errors are logged and skipped.
func printRows(src readrows.Source, strict bool, stdout io.Writer) error {
	stream, err := readrows.New(&readrows.Config{Source: src, Strict: strict})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	rows, errs := 0, 0
	for row, err := range stream.All() {
		if err != nil {
			if !readrows.IsSequenceError(err) {
				return err
			}
			errs++
			continue
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		rows++
	}

	log.Info().Str("scan", stream.ID()).Int("rows", rows).Int("errors", errs).Msg("scan complete")
	return nil
}
