// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/fivegms/internal/ingest"
	"github.com/ManuGH/fivegms/internal/log"
	"github.com/ManuGH/fivegms/internal/model"
	"github.com/ManuGH/fivegms/internal/problem"
	"github.com/ManuGH/fivegms/internal/store"
)

type app struct {
	kind    model.Kind
	format  string
	decoder *ingest.Decoder
	repo    *store.Repository
	stdout  io.Writer
	stderr  io.Writer

	// ready is closed once the watcher is registered. Tests only.
	ready chan struct{}
}

// result is the outcome for one document.
type result struct {
	File    string           `json:"file"`
	Kind    model.Kind       `json:"kind"`
	Valid   bool             `json:"valid"`
	Key     string           `json:"key,omitempty"`
	Problem *problem.Details `json:"problem,omitempty"`
}

// recordKey derives an M8 store key from the file name. Names that are not
// usable keys get a random one.
func recordKey(path string) string {
	base := filepath.Base(path)
	key := strings.TrimLeft(strings.TrimSuffix(base, filepath.Ext(base)), ".")
	if store.CheckKey(model.KindM8, key) != nil {
		return uuid.NewString()
	}
	return key
}

// accept decodes data as kind and, with a store configured, saves the record.
// It returns the store key, empty when nothing was stored.
func (a *app) accept(ctx context.Context, kind model.Kind, name string, data []byte) (string, error) {
	rec, err := a.decoder.DecodeContext(ctx, kind, data)
	if err != nil {
		return "", err
	}
	if a.repo == nil {
		return "", nil
	}
	return a.save(ctx, name, rec)
}

func (a *app) save(ctx context.Context, name string, rec model.Record) (string, error) {
	var (
		key string
		err error
	)
	switch r := rec.(type) {
	case model.ServiceAccessInformation:
		key = r.ProvisioningSessionID()
		err = a.repo.SaveServiceAccess(ctx, r)
	case model.ConsumptionReporting:
		key, err = a.repo.SaveConsumptionReport(ctx, r)
	case model.M8Model:
		key = recordKey(name)
		err = a.repo.SaveM8(ctx, key, r)
	default:
		return "", fmt.Errorf("no store mapping for %T", rec)
	}
	if err != nil {
		return "", fmt.Errorf("store %s: %w", rec.Kind(), err)
	}
	return key, nil
}

func (a *app) check(ctx context.Context, path string) result {
	ctx = log.ContextWithCorrelationID(ctx, uuid.NewString())
	res := result{File: path, Kind: a.kind}
	fail := func(err error) result {
		d := problem.FromError(err)
		res.Problem = &d
		return res
	}

	// #nosec G304 -- document paths are provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	key, err := a.accept(ctx, a.kind, path, data)
	if err != nil {
		return fail(err)
	}
	if key != "" {
		logger := log.WithComponentFromContext(ctx, "validate")
		logger.Debug().Str(log.FieldFile, path).Str(log.FieldKey, key).Msg("record stored")
	}
	res.Key = key
	res.Valid = true
	return res
}

// checkFiles validates paths concurrently and returns results in input order.
func (a *app) checkFiles(ctx context.Context, paths []string) ([]result, error) {
	results := make([]result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.check(ctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func allValid(results []result) bool {
	for _, r := range results {
		if !r.Valid {
			return false
		}
	}
	return true
}

// report prints results. Text goes to stdout for valid and stderr for invalid
// documents; JSON is a single array on stdout.
func (a *app) report(results []result) error {
	if a.format == "json" {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		if r.Valid {
			if r.Key != "" {
				fmt.Fprintf(a.stdout, "✓ %s is valid (stored as %s)\n", r.File, r.Key)
			} else {
				fmt.Fprintf(a.stdout, "✓ %s is valid\n", r.File)
			}
			continue
		}
		fmt.Fprintf(a.stderr, "✗ %s: %s\n", r.File, r.Problem.Detail)
		for _, p := range r.Problem.InvalidParams {
			fmt.Fprintf(a.stderr, "  %s (%s, %s)\n", p.Param, p.Reason, r.Problem.Cause)
		}
	}
	return nil
}
