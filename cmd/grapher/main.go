package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"grapher/dataset"
	"grapher/engine"
	"grapher/internal/config"
	"grapher/internal/logger"
	"grapher/internal/storage"
	"grapher/notebook"
	"grapher/preview"
	"grapher/site"
)

const version = "0.1.0"

func main() {
	input := flag.String("input", "", "Path to a JSONL dump of chart configs for batch notebook generation")
	url := flag.String("url", "", "URL of a single chart to reconstruct")
	slug := flag.String("slug", "", "Slug of a single chart to reconstruct")
	out := flag.String("out", "", "Output directory (overrides OUTPUT_DIR); single charts print to stdout when unset")
	withPreview := flag.Bool("preview", false, "Also emit HTML and PNG previews next to each notebook")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `grapher - reconstruct remote charts as notebooks

Usage:
  grapher -slug life-expectancy
  grapher -slug life-expectancy -out ./notebooks -preview
  grapher -url https://ourworldindata.org/grapher/life-expectancy
  grapher -input charts.jsonl -out ./notebooks

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  GRAPHER_URL       Chart URL prefix
  GRAPHER_DATA_URL  Variable data URL template
  GRAPHER_EPOCH     Zero day for day-based charts (default 1970-01-01)
  OUTPUT_DIR        Default output directory
  DEPLOYMENT_MODE   local or gcs
  GCS_BUCKET        Bucket for gcs mode
  LOG_LEVEL         debug, info, warn, error
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("grapher %s\n", version)
		os.Exit(0)
	}

	if *input == "" && *url == "" && *slug == "" {
		fmt.Fprintln(os.Stderr, "Error: one of -input, -url or -slug is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.SetGlobalLogger(logger.New(logger.Config{
		Level:  logger.ParseLogLevel(cfg.LogLevel),
		Format: logger.ParseLogFormat(cfg.LogFormat),
	}))

	if *out != "" {
		cfg.OutputDir = *out
	}
	epoch, err := cfg.Epoch()
	if err != nil {
		logger.Fatal("Failed to parse epoch", err)
	}

	client := site.NewClient(
		site.WithGrapherURL(cfg.GrapherURL),
		site.WithDataURL(cfg.DataURL),
		site.WithEpoch(epoch),
	)

	switch {
	case *input != "":
		if err := runBatch(ctx, cfg, client, *input, epoch, *withPreview); err != nil {
			logger.Fatal("Batch generation failed", err)
		}

	default:
		if err := runSingle(ctx, cfg, client, *url, *slug, *out, epoch, *withPreview); err != nil {
			logger.Fatal("Chart reconstruction failed", err)
		}
	}
}

func runBatch(ctx context.Context, cfg *config.Config, client *site.Client, inputPath string, epoch time.Time, withPreview bool) error {
	store, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.DeploymentMode), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file %s: %w", inputPath, err)
	}
	defer f.Close()

	gen := notebook.NewGenerator(client, store,
		notebook.WithEpoch(epoch),
		notebook.WithPreview(withPreview),
	)
	_, err = gen.RunBatch(ctx, f)
	return err
}

func runSingle(ctx context.Context, cfg *config.Config, client *site.Client, url, slug, out string, epoch time.Time, withPreview bool) error {
	var remote *engine.RemoteConfig
	var err error
	if url != "" {
		remote, err = client.ChartConfig(ctx, url)
	} else {
		remote, err = client.ChartConfigBySlug(ctx, slug)
	}
	if err != nil {
		return err
	}

	// Without an output directory, just print the reconstructed source
	if out == "" {
		ds, err := client.OWIDData(ctx, remote)
		if err != nil {
			return err
		}
		translation, err := engine.Translate(remote, ds, engine.WithEpoch(epoch))
		if err != nil {
			return err
		}
		fmt.Println(translation.Render())
		return nil
	}

	store, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.DeploymentMode), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	gen := notebook.NewGenerator(client, store,
		notebook.WithEpoch(epoch),
		notebook.WithPreview(withPreview),
	)
	if err := gen.Generate(ctx, remote); err != nil {
		return err
	}
	logger.Infof("Wrote %s.ipynb to %s", remote.Slug, cfg.OutputDir)

	if withPreview {
		ds, err := client.OWIDData(ctx, remote)
		if err != nil {
			return err
		}
		if err := writeChartPreviews(ctx, store, remote, ds); err != nil {
			return err
		}
	}
	return nil
}

func writeChartPreviews(ctx context.Context, store storage.StorageClient, remote *engine.RemoteConfig, ds *dataset.Dataset) error {
	var html bytes.Buffer
	if err := preview.LineHTML(ds, remote.Title, &html); err != nil {
		return err
	}
	if err := store.StoreFile(ctx, remote.Slug+"-chart.html", html.Bytes()); err != nil {
		return err
	}

	var png bytes.Buffer
	if err := preview.LinePNG(ds, remote.Title, &png); err != nil {
		return err
	}
	return store.StoreFile(ctx, remote.Slug+"-chart.png", png.Bytes())
}
