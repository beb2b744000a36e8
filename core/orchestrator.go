package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/internal/iocache"
	"github.com/huangsam/docname/schema"
)

// progressOut receives verbose progress lines. Stderr keeps them out of
// the structured output on stdout.
var progressOut io.Writer = os.Stderr

// Run executes a full rename batch over the configured input paths and
// returns the aggregated result. Per-file failures are recorded and the
// batch continues; only setup problems (no inputs, unreachable model)
// abort the run.
func Run(ctx context.Context, cfg *contract.Config, model contract.VisionModel, raster contract.Rasterizer, mgr contract.CacheManager) (*schema.RunResult, error) {
	startedAt := time.Now()

	files, err := CollectFiles(cfg.InputPaths, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no supported documents found")
	}

	// Health-check once before dispatching anything
	if err := model.Ping(ctx); err != nil {
		return nil, fmt.Errorf("model server at %s is unreachable: %w", cfg.BaseURL, err)
	}

	if cfg.Verbose {
		mode := "dry-run"
		if cfg.Execute {
			mode = "execute"
		}
		fmt.Fprintf(progressOut, "Processing %d files with %d workers (%s)\n", len(files), cfg.Workers, mode)
	}

	collector := NewStatsCollector()
	registry := NewNameRegistry()
	pace := newPacer(cfg.Delay)

	fileCh := make(chan string, len(files))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				collector.Add(processFile(ctx, cfg, model, raster, mgr, registry, pace, f))
			}
		})
	}

	// Send files to worker channel; cancellation stops dispatching new
	// files while in-flight ones run to completion
dispatch:
	for _, f := range files {
		select {
		case <-ctx.Done():
			break dispatch
		default:
			fileCh <- f
		}
	}
	close(fileCh)
	wg.Wait()

	records, stats := collector.Snapshot()
	return &schema.RunResult{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		DryRun:     !cfg.Execute,
		Model:      model.ModelID(),
		Records:    records,
		Stats:      stats,
	}, nil
}

// processFile runs the full pipeline for one file and always returns a
// terminal record. A failed file is left untouched on disk.
func processFile(ctx context.Context, cfg *contract.Config, model contract.VisionModel, raster contract.Rasterizer, mgr contract.CacheManager, registry *NameRegistry, pace *pacer, path string) schema.RenameRecord {
	start := time.Now()
	rec := schema.RenameRecord{SourcePath: path}

	fp, err := Fingerprint(path)
	if err != nil {
		return failRecord(rec, start, err)
	}
	rec.Fingerprint = fp

	cache := mgr.GetAnalysisCache()
	meta, fromCache, err := resolveMetadata(ctx, cfg, model, raster, cache, pace, path, fp)
	if err != nil {
		return failRecord(rec, start, err)
	}
	rec.FromCache = fromCache

	if meta.Description == "" {
		// Unusable reply still gets a deterministic name from the source file
		base := filepath.Base(path)
		meta.Description = strings.TrimSuffix(base, filepath.Ext(base))
	}

	target := BuildFilename(meta, filepath.Ext(path), cfg.Receipt)
	dir := filepath.Dir(path)

	final := registry.Claim(dir, target, path)
	rec.TargetName = final

	// The claim resolves to the file's current name when it already
	// carries the derived name, or a variant of it from an earlier run
	if final == filepath.Base(path) {
		if fromCache {
			rec.Outcome = schema.OutcomeCacheHit
		} else {
			rec.Outcome = schema.OutcomeSkipped
		}
		rec.Duration = time.Since(start)
		logOutcome(cfg, rec)
		return rec
	}

	if cfg.Execute {
		newPath := filepath.Join(dir, final)
		if err := os.Rename(path, newPath); err != nil {
			registry.Release(dir, final)
			return failRecord(rec, start, &contract.IOError{Path: path, Err: err})
		}

		journalRec := schema.JournalRecord{
			Fingerprint:  fp,
			OriginalPath: path,
			NewPath:      newPath,
			Outcome:      string(schema.OutcomeRenamed),
		}
		if err := mgr.GetRenameJournal().Record(ctx, journalRec); err != nil {
			contract.LogWarn("Failed to journal rename", err)
		}
		if err := cache.RefreshPathHint(ctx, fp, newPath); err != nil {
			contract.LogWarn("Failed to refresh cache path hint", err)
		}
	}

	rec.Outcome = schema.OutcomeRenamed
	rec.Duration = time.Since(start)
	logOutcome(cfg, rec)
	return rec
}

// resolveMetadata returns the metadata for a file, served from the cache
// when possible. The bool result reports whether the cache served it.
func resolveMetadata(ctx context.Context, cfg *contract.Config, model contract.VisionModel, raster contract.Rasterizer, cache contract.AnalysisCache, pace *pacer, path, fp string) (schema.DocumentMetadata, bool, error) {
	entry, found, err := cache.Lookup(ctx, fp)
	if err != nil {
		// Lookup failure degrades to a miss, never aborts the batch
		contract.LogWarn("Cache lookup failed, treating as miss", err)
		found = false
	}
	if found && entry.SchemaVersion != iocache.CurrentSchemaVersion {
		// Row written under an older layout: drop it and re-analyze
		if err := cache.Delete(ctx, fp); err != nil {
			contract.LogWarn("Failed to evict stale cache entry", err)
		}
		found = false
	}
	if found {
		if err := cache.RefreshPathHint(ctx, fp, path); err != nil {
			contract.LogWarn("Failed to refresh cache path hint", err)
		}
		return entry.Metadata, true, nil
	}

	var imageB64 string
	if !cfg.NoImage {
		imageB64, err = raster.RenderFirstPage(ctx, path)
		if err != nil {
			return schema.DocumentMetadata{}, false, err
		}
	}

	// Pacing gates model invocations only; cache hits never wait
	pace.Wait(ctx)

	raw, err := model.Analyze(ctx, contract.AnalysisRequest{
		ImageBase64: imageB64,
		Filename:    filepath.Base(path),
		Receipt:     cfg.Receipt,
	})
	if err != nil {
		return schema.DocumentMetadata{}, false, &contract.InferenceError{Filename: filepath.Base(path), Err: err}
	}

	meta := ParseResponse(raw, cfg.Receipt)

	storeEntry := schema.CacheEntry{
		Fingerprint:    fp,
		Metadata:       meta,
		RawResponse:    raw,
		ModelID:        model.ModelID(),
		SchemaVersion:  iocache.CurrentSchemaVersion,
		CreatedAt:      time.Now(),
		SourcePathHint: path,
	}
	if err := cache.Store(ctx, storeEntry); err != nil {
		contract.LogWarn("Cache store failed", err)
	}
	return meta, false, nil
}

// failRecord finalizes a record for a file whose processing failed.
func failRecord(rec schema.RenameRecord, start time.Time, err error) schema.RenameRecord {
	rec.Outcome = schema.OutcomeFailed
	rec.Error = err.Error()
	rec.Duration = time.Since(start)
	return rec
}

// logOutcome prints a per-file progress line in verbose mode.
func logOutcome(cfg *contract.Config, rec schema.RenameRecord) {
	if !cfg.Verbose {
		return
	}
	label := contract.GetPlainLabel(rec.Outcome)
	if cfg.UseColors {
		label = contract.GetColorLabel(rec.Outcome)
	}
	if rec.TargetName != "" && rec.Outcome == schema.OutcomeRenamed {
		fmt.Fprintf(progressOut, "%s %s -> %s\n", label, rec.SourcePath, rec.TargetName)
		return
	}
	fmt.Fprintf(progressOut, "%s %s\n", label, rec.SourcePath)
}

// pacer spaces model invocations at least one delay apart across all
// workers.
type pacer struct {
	mu    sync.Mutex
	delay time.Duration
	next  time.Time
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay}
}

// Wait blocks until the caller's slot arrives or the context is canceled.
func (p *pacer) Wait(ctx context.Context) {
	if p.delay <= 0 {
		return
	}

	p.mu.Lock()
	now := time.Now()
	if p.next.Before(now) {
		p.next = now
	}
	wait := p.next.Sub(now)
	p.next = p.next.Add(p.delay)
	p.mu.Unlock()

	if wait <= 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
