// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// validate is a CLI tool to validate 5GMS record documents.
//
// Usage:
//
//	validate -kind m8 -f m8.json
//	validate -kind consumption-reporting -f a.json -f b.json -format json
//	validate -kind service-access-information -watch ./incoming -store
//	validate -kind m8 -listen :9464 -store
//
// Exit codes:
//   - 0: Every document is valid
//   - 1: At least one document is invalid or could not be processed
//   - 2: Usage or configuration error
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/fivegms/internal/cache"
	"github.com/ManuGH/fivegms/internal/config"
	"github.com/ManuGH/fivegms/internal/ingest"
	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/metrics"
	"github.com/ManuGH/fivegms/internal/model"
	"github.com/ManuGH/fivegms/internal/store"
	"github.com/ManuGH/fivegms/internal/version"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

// fileList collects repeated -f flags.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

type options struct {
	kind        model.Kind
	files       []string
	format      string
	schema      bool
	schemaSet   bool
	store       bool
	watchDir    string
	listenAddr  string
	configPath  string
	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts  options
		kind  string
		files fileList
	)
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&kind, "kind", "", "record kind: "+kindNames())
	fs.Var(&files, "f", "path to a JSON document (repeatable)")
	fs.Var(&files, "file", "path to a JSON document (repeatable)")
	fs.StringVar(&opts.format, "format", "text", "output format: text or json")
	fs.BoolVar(&opts.schema, "schema", false, "also check documents against the OpenAPI contract")
	fs.BoolVar(&opts.store, "store", false, "persist valid documents in the configured store")
	fs.StringVar(&opts.watchDir, "watch", "", "re-validate *.json files in this directory on change")
	fs.StringVar(&opts.listenAddr, "listen", "", "serve /metrics and POST /records/{kind} on this address")
	fs.StringVar(&opts.configPath, "config", "", "path to YAML configuration file")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "schema" {
			opts.schemaSet = true
		}
	})
	if opts.showVersion {
		return opts, nil
	}

	opts.files = files
	if opts.format != "text" && opts.format != "json" {
		return options{}, fmt.Errorf("-format must be text or json, got %q", opts.format)
	}
	if len(opts.files) == 0 && opts.watchDir == "" && opts.listenAddr == "" {
		return options{}, errors.New("at least one -f, -watch or -listen is required")
	}
	// The HTTP front end takes the kind from the request path.
	if kind == "" && len(opts.files) == 0 && opts.watchDir == "" {
		return opts, nil
	}
	k, err := model.ParseKind(kind)
	if err != nil {
		return options{}, fmt.Errorf("-kind: %w", err)
	}
	opts.kind = k
	return opts, nil
}

func kindNames() string {
	names := make([]string, 0, len(model.Kinds()))
	for _, k := range model.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			fmt.Fprintln(stderr, "Usage:")
			fmt.Fprintln(stderr, "  validate -kind m8 -f document.json [-f ...] [-schema] [-format text|json] [-store] [-watch dir] [-listen addr] [-config cfg.yaml]")
		}
		return exitUsage
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return exitUsage
	}
	log.Reconfigure(cfg.LogConfig(stderr))
	logger := log.WithComponent("validate")
	if opts.schemaSet {
		cfg.Schema.Check = opts.schema
	}

	c := cache.NewNoOp[ingest.Entry]()
	if cfg.Cache.Enabled {
		c = cache.NewMemory[ingest.Entry](cfg.CacheOptions())
	}
	dec := ingest.NewDecoder(ingest.Options{
		Cache:       c,
		TTL:         cfg.Cache.TTL,
		SchemaCheck: cfg.Schema.Check,
	})
	defer dec.Close()

	a := &app{
		kind:    opts.kind,
		format:  opts.format,
		decoder: dec,
		stdout:  stdout,
		stderr:  stderr,
	}
	if opts.store {
		s, err := store.OpenStore(ctx, cfg.StoreConfig())
		if err != nil {
			fmt.Fprintf(stderr, "Store error: %v\n", err)
			return exitUsage
		}
		defer func() {
			if err := s.Close(); err != nil {
				logger.Warn().Err(err).Msg("close store")
			}
		}()
		a.repo = store.NewRepository(s, dec)
	}

	code := exitOK
	if len(opts.files) > 0 {
		results, err := a.checkFiles(ctx, opts.files)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvalid
		}
		if err := a.report(results); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitInvalid
		}
		if !allValid(results) {
			code = exitInvalid
		}
		logger.Debug().
			Str(log.FieldKind, opts.kind.String()).
			Int("files", len(results)).
			Bool("valid", code == exitOK).
			Float64("decoded_ok_total", metrics.DecodeCount(opts.kind.String(), metrics.ResultOK)).
			Msg("validation finished")
	}

	var ln net.Listener
	if opts.listenAddr != "" {
		if ln, err = net.Listen("tcp", opts.listenAddr); err != nil {
			fmt.Fprintf(stderr, "Listen error: %v\n", err)
			return exitUsage
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.watchDir != "" {
		g.Go(func() error { return a.watch(gctx, opts.watchDir) })
	}
	if ln != nil {
		g.Go(func() error { return a.serve(gctx, ln) })
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInvalid
	}
	return code
}
