// mbimport pulls one calendar month of album releases from musicbrainz,
// normalizes and dedupes them, always saves a json dump, and optionally
// upserts the rows into a supabase staging or albums table.
//
// the intended workflow:
//
//	mbimport -year 2025 -month 12                       # dry run, saves mb_out/mb_2025_12.json
//	mbimport -from-json mb_out/mb_2025_12.json -stage   # no network, upsert into staging
//	mbimport -from-json mb_out/mb_2025_12.json -write   # no network, upsert into albums
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/albumshare/mbimport/db"
	"github.com/albumshare/mbimport/dump"
	"github.com/albumshare/mbimport/importer"
	"github.com/albumshare/mbimport/mb"
	"github.com/albumshare/mbimport/sigctx"
	"github.com/albumshare/mbimport/subcmd"
	"github.com/albumshare/mbimport/supabase"
)

var doc = strings.TrimSpace(`
mbimport imports one month of musicbrainz album releases.
default mode is a dry run: fetch, normalize, dedupe, save json, write nothing.
supabase writes (-stage, -write) require SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY.
`)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	} else if err != nil && errors.Is(err, context.Canceled) {
		fmt.Println("canceled")
	}
}

func run() error {
	ctx := sigctx.New()

	// credentials may live in a .env next to the binary, like the rest of
	// the albumshare tooling expects
	_ = godotenv.Load()

	var cfg importer.Config
	var sleepSeconds float64
	var archivePath string

	cmd := subcmd.New("mbimport", doc)
	cmd.IntVar(&cfg.Year, "year", 0, "year to fetch (required unless -from-json)")
	cmd.IntVar(&cfg.Month, "month", 0, "month to fetch, 1-12 (required unless -from-json)")
	cmd.Float64Var(&sleepSeconds, "sleep", 1.1, "minimum spacing between musicbrainz requests, in seconds")
	cmd.StringVar(&cfg.FromJSON, "from-json", "", "load rows from an existing dump instead of refetching")
	cmd.StringVar(&cfg.OutDir, "out-dir", dump.DefaultDir, "folder for json dumps")
	cmd.StringVar(&cfg.Out, "out", "", "explicit output path (overrides -out-dir naming)")
	cmd.BoolVar(&cfg.DryRun, "dry-run", false, "no supabase writes; still saves json")
	cmd.BoolVar(&cfg.Stage, "stage", false, "upsert rows into the staging table")
	cmd.BoolVar(&cfg.Write, "write", false, "upsert rows into the albums table")
	cmd.StringVar(&cfg.AlbumsTable, "albums-table", "albums", "destination table for -write")
	cmd.StringVar(&cfg.StagingTable, "staging-table", "albums_import_staging", "destination table for -stage")
	cmd.StringVar(&cfg.OnConflict, "on-conflict", "mb_release_id", "unique key column for upserts")
	cmd.BoolVar(&cfg.Minimal, "minimal", false, "keep only the core fields (for tables without the optional columns)")
	cmd.StringVar(&archivePath, "archive", "", "also upsert rows into a local sqlite archive file")
	if err := cmd.Parse(os.Args[1:]); err != nil {
		return err
	}
	cfg.Sleep = time.Duration(sleepSeconds * float64(time.Second))

	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer zl.Sync()
	log := zl.Sugar()

	source := mb.New(mb.BaseURL, cfg.Sleep, log)
	sink := supabase.FromEnv(log)

	var archive importer.Archiver
	if archivePath != "" {
		adb, err := db.Open(archivePath)
		if err != nil {
			return err
		}
		defer adb.Close()
		archive = adb
	}

	return importer.New(cfg, source, sink, archive, log).Run(ctx)
}
