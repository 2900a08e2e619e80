// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/imagesearch"
	"github.com/poiesic/imagesearch/ai"
	"github.com/poiesic/imagesearch/ingestion"
	"github.com/poiesic/imagesearch/reindex"
	"github.com/poiesic/imagesearch/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "imagesearch",
		Usage: "Text-to-image semantic search over a local image collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "feed",
				Usage:  "Embed and index images from a directory or a JSON feed file",
				Action: feedCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "images",
						Usage: "Directory of JPEG/PNG images to feed",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "JSON feed file (array of records with image_file_name and base64 image)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent feed workers (0 = half the CPUs)",
					},
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Reject the entire batch when any record is missing a required field",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search indexed images by text query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results to return",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity for a hit",
						Value: 0,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed all indexed documents with the configured model",
				Action: reindexCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "images",
						Usage:    "Directory holding the source image files",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed model evaluations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB index directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "model",
			Aliases:  []string{"m"},
			Usage:    "Path to the ONNX visual model file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Text-embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Text-embedding model name",
			Value: "clip-vit-b-32-text",
		},
	}
}

func openIndex(c *cli.Context) (*imagesearch.Index, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	idx, err := imagesearch.NewIndex(c.String("db"), c.String("model"),
		imagesearch.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return idx, nil
}

func feedCommand(c *cli.Context) error {
	ctx := context.Background()

	imagesDir := c.String("images")
	feedFile := c.String("file")
	if imagesDir == "" && feedFile == "" {
		return fmt.Errorf("either --images or --file is required")
	}
	if imagesDir != "" && feedFile != "" {
		return fmt.Errorf("--images and --file are mutually exclusive")
	}

	idx, err := openIndex(c)
	if err != nil {
		return err
	}
	defer idx.Close()

	var opts []ingestion.Option
	if c.Int("pool-size") > 0 {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}
	if c.Bool("strict") {
		opts = append(opts, ingestion.WithStrictValidation())
	}

	pipeline, err := idx.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	var report *ingestion.FeedReport
	if imagesDir != "" {
		report, err = pipeline.FeedDirectory(ctx, imagesDir)
	} else {
		f, openErr := os.Open(feedFile)
		if openErr != nil {
			return fmt.Errorf("failed to open feed file: %w", openErr)
		}
		defer f.Close()

		records, parseErr := ingestion.ParseFeedBatch(f)
		if parseErr != nil {
			return parseErr
		}
		report, err = pipeline.FeedBatch(ctx, records)
	}
	if err != nil {
		return fmt.Errorf("feed failed: %w", err)
	}

	for _, item := range report.Items {
		if item.Err != nil {
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", item.FileName, item.Err)
		}
	}
	fmt.Printf("Fed %d / %d documents\n", report.Fed, report.Total)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	idx, err := openIndex(c)
	if err != nil {
		return err
	}
	defer idx.Close()

	searcher, err := idx.NewSearcher(
		search.WithMinSimilarity(float32(c.Float64("min-similarity"))),
	)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(ctx, query, c.Int("max-hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (%d)[%0.3f]\n", i, hit.Document.FileName, hit.Document.Id, hit.Score)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	idx, err := openIndex(c)
	if err != nil {
		return err
	}
	defer idx.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer, err := idx.NewReindexer(c.String("images"), config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reindexer: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Index: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Model: %s\n", c.String("model"))
	fmt.Fprintf(os.Stderr, "Images: %s\n", c.String("images"))
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
