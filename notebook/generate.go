package notebook

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"grapher/dataset"
	"grapher/engine"
	"grapher/internal/logger"
	"grapher/internal/storage"
)

// DataSource fetches the dataset behind a chart config. The site client
// satisfies it; tests substitute a stub.
type DataSource interface {
	OWIDData(ctx context.Context, cfg *engine.RemoteConfig) (*dataset.Dataset, error)
}

// Generator writes notebooks, sibling CSVs and optional HTML previews
// for remote chart configs.
type Generator struct {
	source  DataSource
	store   storage.StorageClient
	epoch   time.Time
	preview bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithEpoch sets the zero day used when decoding day-based datasets.
func WithEpoch(epoch time.Time) GeneratorOption {
	return func(g *Generator) {
		g.epoch = epoch
	}
}

// WithPreview enables emitting an HTML preview next to each notebook.
func WithPreview(enabled bool) GeneratorOption {
	return func(g *Generator) {
		g.preview = enabled
	}
}

// NewGenerator creates a notebook generator. The source may be nil when
// every config carries an embedded dataset.
func NewGenerator(source DataSource, store storage.StorageClient, opts ...GeneratorOption) *Generator {
	g := &Generator{
		source: source,
		store:  store,
		epoch:  dataset.DefaultEpoch,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate reverse-compiles one config and writes <slug>.ipynb plus
// <slug>.csv through the storage client. Configs without an embedded
// dataset are resolved through the data source.
func (g *Generator) Generate(ctx context.Context, cfg *engine.RemoteConfig) error {
	if cfg.Slug == "" {
		return fmt.Errorf("config has no slug")
	}

	ds := cfg.OwidDataset
	if ds == nil {
		if g.source == nil {
			return fmt.Errorf("config %s has no embedded dataset and no data source is configured", cfg.Slug)
		}
		fetched, err := g.source.OWIDData(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to fetch dataset for %s: %w", cfg.Slug, err)
		}
		ds = fetched
	}

	translation, err := engine.Translate(cfg, ds, engine.WithEpoch(g.epoch))
	if err != nil {
		return err
	}

	doc := New(cfg.Slug, cfg.Title, translation.Render())
	raw, err := doc.JSON()
	if err != nil {
		return err
	}
	if err := g.store.StoreFile(ctx, cfg.Slug+".ipynb", raw); err != nil {
		return err
	}

	f, err := ds.Frame(g.epoch)
	if err != nil {
		return fmt.Errorf("failed to decode dataset for %s: %w", cfg.Slug, err)
	}
	var csv bytes.Buffer
	if err := f.WriteCSV(&csv); err != nil {
		return fmt.Errorf("failed to encode CSV for %s: %w", cfg.Slug, err)
	}
	if err := g.store.StoreFile(ctx, cfg.Slug+".csv", csv.Bytes()); err != nil {
		return err
	}

	if g.preview {
		page, err := doc.HTML()
		if err != nil {
			return err
		}
		if err := g.store.StoreFile(ctx, cfg.Slug+".html", []byte(page)); err != nil {
			return err
		}
	}

	return nil
}

// BatchResult tallies one RunBatch invocation.
type BatchResult struct {
	Generated int
	Skipped   int
	Total     int
}

// RunBatch reads a JSONL stream of chart configs and generates a
// notebook for each published, slugged config. Unsupported chart types
// are counted and skipped; any other failure aborts the batch.
func (g *Generator) RunBatch(ctx context.Context, r io.Reader) (*BatchResult, error) {
	scanner := bufio.NewScanner(r)
	// Configs with embedded datasets run to several megabytes per line
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	var result BatchResult
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		cfg, err := engine.ParseRemoteConfig(line)
		if err != nil {
			return nil, err
		}
		if !cfg.IsPublished || cfg.Slug == "" {
			continue
		}
		result.Total++

		if err := g.Generate(ctx, cfg); err != nil {
			var unsupported *engine.UnsupportedChartTypeError
			if errors.As(err, &unsupported) {
				result.Skipped++
				logger.Infof("✗ [%d/%d] %s", result.Generated, result.Total, cfg.Slug)
				continue
			}
			return nil, fmt.Errorf("failed to generate notebook for %s: %w", cfg.Slug, err)
		}

		result.Generated++
		logger.Infof("✓ [%d/%d] %s", result.Generated, result.Total, cfg.Slug)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config stream: %w", err)
	}

	logger.Infof("Generated %d notebooks successfully", result.Generated)
	return &result, nil
}
