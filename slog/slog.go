// Package slog provides log/slog decorators for lpedit services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lpedit"
)

// Ensure decorators implement their interfaces.
var (
	_ lpedit.ArchiveReader = (*LoggingArchiveReader)(nil)
	_ lpedit.Analyzer      = (*LoggingAnalyzer)(nil)
	_ lpedit.Patcher       = (*LoggingPatcher)(nil)
)

// LoggingArchiveReader wraps an ArchiveReader with logging.
type LoggingArchiveReader struct {
	next   lpedit.ArchiveReader
	logger *slog.Logger
}

// NewLoggingArchiveReader creates a new LoggingArchiveReader.
func NewLoggingArchiveReader(next lpedit.ArchiveReader, logger *slog.Logger) *LoggingArchiveReader {
	return &LoggingArchiveReader{next: next, logger: logger}
}

// ReadArchive delegates to the wrapped reader and logs the operation.
func (r *LoggingArchiveReader) ReadArchive(ctx context.Context, path string) (entries []lpedit.ArchiveEntry, err error) {
	defer func(begin time.Time) {
		r.logger.Info("read archive",
			"path", path,
			"entries", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadArchive(ctx, path)
}

// LoggingAnalyzer wraps an Analyzer with logging.
type LoggingAnalyzer struct {
	next   lpedit.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next lpedit.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the resulting model.
func (a *LoggingAnalyzer) Analyze(session *lpedit.ImportSession, entryPath string) (project *lpedit.ImportProject, err error) {
	defer func(begin time.Time) {
		attrs := []any{"entry", entryPath}
		if project != nil {
			attrs = append(attrs,
				"sections", len(project.Sections),
				"text", project.Stats.EditableText,
				"links", project.Stats.EditableLinks,
				"images", project.Stats.EditableImages,
				"frozen", project.Stats.FrozenBlocks,
				"missing", len(project.MissingAssets),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		a.logger.Info("analyze entry", attrs...)
	}(time.Now())
	return a.next.Analyze(session, entryPath)
}

// LoggingPatcher wraps a Patcher with logging.
type LoggingPatcher struct {
	next   lpedit.Patcher
	logger *slog.Logger
}

// NewLoggingPatcher creates a new LoggingPatcher.
func NewLoggingPatcher(next lpedit.Patcher, logger *slog.Logger) *LoggingPatcher {
	return &LoggingPatcher{next: next, logger: logger}
}

// Apply delegates to the wrapped patcher and logs the pass outcome.
// Each block the pass could not locate is logged as a warning.
func (p *LoggingPatcher) Apply(project *lpedit.ImportProject, opts lpedit.PatchOptions) (result *lpedit.PatchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"entry", project.EntryHTMLPath, "mode", opts.Mode.String()}
		if result != nil {
			attrs = append(attrs,
				"applied", result.Applied,
				"unchanged", result.Unchanged,
				"failed", len(result.Failed),
				"bytes", len(result.HTML),
			)
			for _, id := range result.Failed {
				p.logger.Warn("block not located", "block", id, "reason", lpedit.ReasonReplaceFailed)
			}
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		p.logger.Info("patch", attrs...)
	}(time.Now())
	return p.next.Apply(project, opts)
}
