// Command ingest runs the résumé pipeline over every file in a directory and
// prints the batch report as JSON. Files are sent in batches of batch.max_files.
// Usage: go run ./cmd/ingest -owner <uuid> [-mode strict|allow_updates|allow_all] <dir>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/google/uuid"

	"resumeflow/internal/config"
	"resumeflow/internal/dedup"
	"resumeflow/internal/domain"
	"resumeflow/internal/extract"
	"resumeflow/internal/generation"
	_ "resumeflow/internal/generation/all"
	"resumeflow/internal/port"
	"resumeflow/internal/repository/sqldb"
	"resumeflow/internal/service"
	"resumeflow/internal/validator/resume"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ownerFlag := flag.String("owner", "", "owner UUID the candidates belong to")
	modeFlag := flag.String("mode", "strict", "duplicate handling: strict, allow_updates or allow_all")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: ingest -owner <uuid> [-mode strict|allow_updates|allow_all] <dir>")
	}
	ownerID, err := uuid.Parse(*ownerFlag)
	if err != nil {
		return fmt.Errorf("invalid -owner: %w", err)
	}
	mode, err := domain.ParseDuplicateMode(*modeFlag)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := sqldb.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	gen, err := generation.Build(ctx, &cfg.Generation)
	if err != nil {
		return fmt.Errorf("building generation stack: %w", err)
	}
	defer func() { _ = gen.Close() }()

	var validator resume.Validator
	if cfg.Batch.ValidateContent {
		if validator, err = resume.NewValidator(gen.Generator); err != nil {
			return fmt.Errorf("building validator: %w", err)
		}
	}

	repo := sqldb.NewCandidateRepo(db)
	ingest := service.NewIngestService(
		extract.NewExtractor(cfg.Batch.MinTextChars),
		gen.Generator,
		dedup.NewResolver(repo, cfg.Dedup.Policy()),
		service.NewCandidateUpsert(repo),
		validator, nil, nil,
	)
	batch := service.NewBatchService(ingest, nil, cfg.Batch)

	docs, err := readDir(flag.Arg(0))
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no files in %s", flag.Arg(0))
	}

	size := cfg.Batch.MaxFiles
	if size <= 0 {
		size = service.DefaultMaxBatchFiles
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		res, err := batch.Run(ctx, service.BatchInput{OwnerID: ownerID, Mode: mode, Files: docs[start:end]})
		if err != nil {
			return fmt.Errorf("running batch of files %d-%d: %w", start+1, end, err)
		}
		report := res.Report()
		log.Printf("ingest: batch %s: %d successful, %d duplicates, %d failed",
			report.BatchID, report.Successful, report.Duplicates, report.Failed)
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	return nil
}

// readDir loads the regular files of dir in name order. Unsupported types are
// kept so they show up in the report.
func readDir(dir string) ([]port.RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var docs []port.RawDocument
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		ft, _ := extract.DetectFileType(e.Name())
		docs = append(docs, port.RawDocument{Filename: e.Name(), FileType: ft, Data: data})
	}
	return docs, nil
}
