// Package importer runs the monthly pipeline: collect releases, normalize,
// dedupe, dump to JSON, then route the unique rows according to the mode.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/albumshare/mbimport/data"
	"github.com/albumshare/mbimport/dump"
	"github.com/albumshare/mbimport/mb"
	"github.com/albumshare/mbimport/normalize"
)

// batchSize is how many rows go to the destination per upsert.
const batchSize = 250

// sampleSize is how many rows the dry-run preview shows.
const sampleSize = 5

// Mode selects what happens to the deduped rows after the dump is saved.
type Mode int

const (
	DryRun Mode = iota
	Stage
	Write
)

func (m Mode) String() string {
	switch m {
	case Stage:
		return "STAGE"
	case Write:
		return "WRITE"
	default:
		return "DRY-RUN"
	}
}

// ConfigError is a bad invocation, caught before the pipeline touches the
// network or the disk.
type ConfigError struct{ msg string }

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Source fetches one month of raw releases from the catalog.
type Source interface {
	FetchMonth(ctx context.Context, year, month int) ([]mb.Release, error)
}

// Sink accepts one batch of rows for upsert into a named table, keyed on the
// onConflict column.
type Sink interface {
	Upsert(ctx context.Context, table string, rows []data.Release, onConflict string) error
}

// Archiver mirrors rows into the local albums archive.
type Archiver interface {
	UpsertReleases(rows []data.Release) error
}

type Config struct {
	// live fetch parameters
	Year  int
	Month int
	Sleep time.Duration

	// replay: load rows from a prior dump instead of fetching
	FromJSON string

	// dump placement
	OutDir string
	Out    string

	// mode flags, as given; Mode resolves them
	DryRun bool
	Stage  bool
	Write  bool

	// destination
	AlbumsTable  string
	StagingTable string
	OnConflict   string

	// keep only the core fields before saving and upserting
	Minimal bool
}

// Mode resolves the three mode flags. No flag at all means a dry run.
func (cfg Config) Mode() Mode {
	switch {
	case cfg.Stage:
		return Stage
	case cfg.Write:
		return Write
	default:
		return DryRun
	}
}

// Validate rejects conflicting or incomplete invocations. It runs before any
// I/O, so a bad invocation never half-executes.
func (cfg Config) Validate() error {
	if cfg.Stage && cfg.Write {
		return configErrorf("choose only one of -stage or -write (or neither, for a dry run)")
	}
	if cfg.FromJSON == "" {
		if cfg.Year == 0 || cfg.Month == 0 {
			return configErrorf("-year and -month are required unless -from-json is given")
		}
		if cfg.Month < 1 || cfg.Month > 12 {
			return configErrorf("-month must be between 1 and 12")
		}
	}
	return nil
}

// New builds an Importer. archive may be nil when no local archive is wanted;
// sink is only consulted in stage and write modes.
func New(cfg Config, source Source, sink Sink, archive Archiver, log *zap.SugaredLogger) *Importer {
	return &Importer{
		cfg:     cfg,
		source:  source,
		sink:    sink,
		archive: archive,
		log:     log,
		stdout:  os.Stdout,
	}
}

type Importer struct {
	cfg     Config
	source  Source
	sink    Sink
	archive Archiver
	log     *zap.SugaredLogger
	stdout  io.Writer
}

func (imp *Importer) Run(ctx context.Context) error {
	if err := imp.cfg.Validate(); err != nil {
		return err
	}

	mode := imp.cfg.Mode()
	fmt.Fprintf(imp.stdout, "mode: %s\n", mode)

	rows, src, err := imp.collect(ctx)
	if err != nil {
		return err
	}

	unique, missingID := normalize.Dedupe(rows)
	p := message.NewPrinter(language.English)
	fmt.Fprintln(imp.stdout, p.Sprintf("normalized unique rows: %d (skipped missing id: %d)", len(unique), missingID))

	if imp.cfg.Minimal {
		for i := range unique {
			unique[i] = unique[i].Minimal()
		}
		imp.log.Infow("applied minimal projection")
	}

	outPath := imp.outPath()
	payload := data.Dump{
		Source:                src,
		CountNormalizedUnique: len(unique),
		Rows:                  unique,
	}
	if err := dump.Save(outPath, payload); err != nil {
		return err
	}
	fmt.Fprintf(imp.stdout, "saved normalized dump: %s\n", outPath)

	if imp.archive != nil {
		if err := imp.archive.UpsertReleases(unique); err != nil {
			return fmt.Errorf("archive error: %w", err)
		}
		imp.log.Infow("archived rows", "count", len(unique))
	}

	if mode == DryRun {
		imp.printDryRunSummary(unique, outPath)
		return nil
	}

	table := imp.cfg.StagingTable
	if mode == Write {
		table = imp.cfg.AlbumsTable
	}
	return imp.upsertBatches(ctx, table, unique)
}

// collect loads rows from a prior dump when replaying, or fetches the month
// live and normalizes every release. Replayed rows are already normalized, so
// that path skips normalization entirely; which path runs is decided by the
// invocation, never by sniffing the data's shape.
func (imp *Importer) collect(ctx context.Context) ([]data.Release, data.Source, error) {
	if imp.cfg.FromJSON != "" {
		payload, err := dump.Load(imp.cfg.FromJSON)
		if err != nil {
			return nil, data.Source{}, err
		}
		fmt.Fprintf(imp.stdout, "loaded from json: %s (%d rows)\n", imp.cfg.FromJSON, len(payload.Rows))
		return payload.Rows, data.Source{FromJSON: imp.cfg.FromJSON}, nil
	}

	releases, err := imp.source.FetchMonth(ctx, imp.cfg.Year, imp.cfg.Month)
	if err != nil {
		return nil, data.Source{}, err
	}

	rows := make([]data.Release, len(releases))
	for i, rel := range releases {
		rows[i] = normalize.Release(rel)
	}
	src := data.Source{
		Year:  imp.cfg.Year,
		Month: imp.cfg.Month,
		Sleep: imp.cfg.Sleep.Seconds(),
	}
	return rows, src, nil
}

func (imp *Importer) outPath() string {
	if imp.cfg.Out != "" {
		return imp.cfg.Out
	}
	if imp.cfg.FromJSON != "" && (imp.cfg.Year == 0 || imp.cfg.Month == 0) {
		return dump.LoadedPath(imp.cfg.OutDir)
	}
	return dump.DefaultPath(imp.cfg.OutDir, imp.cfg.Year, imp.cfg.Month)
}

// upsertBatches sends rows to the destination in fixed-size batches, in input
// order. A failed batch is fatal; batches already sent stay committed.
func (imp *Importer) upsertBatches(ctx context.Context, table string, rows []data.Release) error {
	fmt.Fprintf(imp.stdout, "writing to table: %s (upsert on %s)\n", table, imp.cfg.OnConflict)

	p := message.NewPrinter(language.English)
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if err := imp.sink.Upsert(ctx, table, rows[start:end], imp.cfg.OnConflict); err != nil {
			return fmt.Errorf("error upserting batch at offset %d: %w", start, err)
		}
		fmt.Fprintln(imp.stdout, p.Sprintf("  upserted %d/%d", end, len(rows)))
	}

	fmt.Fprintln(imp.stdout, "done")
	return nil
}

func (imp *Importer) printDryRunSummary(rows []data.Release, outPath string) {
	fmt.Fprintln(imp.stdout, "\ndry run complete; sample rows:")
	sample := rows
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	for i, row := range sample {
		fmt.Fprintf(imp.stdout, "  [%d] %s — %s (%s)\n", i+1, row.Artist, row.Album, row.ReleaseDate)
	}
	fmt.Fprintln(imp.stdout, "\nnext:")
	fmt.Fprintf(imp.stdout, "  stage: mbimport -from-json %q -stage\n", outPath)
	fmt.Fprintf(imp.stdout, "  write: mbimport -from-json %q -write\n", outPath)
}
