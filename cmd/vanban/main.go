// Package main is the vanban CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vanban/internal/config"
	"github.com/hyperjump/vanban/internal/embedding"
	"github.com/hyperjump/vanban/internal/fileid"
	"github.com/hyperjump/vanban/internal/models"
	"github.com/hyperjump/vanban/internal/notify"
	"github.com/hyperjump/vanban/internal/ocr"
	"github.com/hyperjump/vanban/internal/pipeline"
	"github.com/hyperjump/vanban/internal/search"
	"github.com/hyperjump/vanban/internal/server"
	"github.com/hyperjump/vanban/internal/store"
	"github.com/hyperjump/vanban/internal/watcher"
	"github.com/hyperjump/vanban/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vanban/config.yaml"

// loadConfig loads config from path. When path is the default, a
// config.yaml in the current directory takes precedence so running from
// the project dir picks up the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "process":
		runProcess()
	case "version", "--version", "-v":
		fmt.Printf("vanban version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: vanban <command> [flags]

Commands:
  server            run the extraction service
  process <file>    run the pipeline on one local PDF and print records
  version           print version
  help              print this help

Flags:
  -config <path>    config file (default ` + defaultConfigPath + `, or ./config.yaml when present)
`)
}

// components holds everything the server and one-shot runs share.
type components struct {
	store *store.SQLiteStore
	cache *store.ResultCache
	index *search.SegmentIndex
	hub   *notify.Hub
	orch  *pipeline.Orchestrator
}

func (c *components) Close() {
	if c.index != nil {
		_ = c.index.Close()
	}
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		_ = c.store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	st, err := store.NewSQLiteStore(cfg.Store.DatabasePath)
	if err != nil {
		return nil, err
	}

	idx, err := search.NewSegmentIndex(cfg.Store.SearchIndexPath)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	cache := store.NewResultCache(cfg.Store.CacheTTL.Std(), cfg.Store.CacheSweep.Std())
	hub := notify.NewHub(logger)

	runner := ocr.NewExecRunner(logger)
	raster := ocr.NewPopplerRasterizer(runner, cfg.OCR.PdftoppmPath, cfg.OCR.MaxPages, logger)
	recognizer := ocr.NewHTTPRecognizer(cfg.OCR.Endpoint, cfg.OCR.Timeout.Std(), logger)
	scheduler := ocr.NewScheduler(recognizer, cfg.OCR.BatchSize, cfg.OCR.Workers, logger)

	orch := pipeline.New(pipeline.Options{
		Store:            st,
		Cache:            cache,
		Index:            idx,
		Hub:              hub,
		Rasterizer:       raster,
		Scheduler:        scheduler,
		OutputDir:        cfg.Output.Dir,
		DPI:              cfg.OCR.DPI,
		RecognitionSlots: cfg.OCR.RecognitionSlots,
		Logger:           logger,
	})

	return &components{store: st, cache: cache, index: idx, hub: hub, orch: orch}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
	)

	comp, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comp.Close()

	embeddingReady := false
	if cfg.Embedding.ModelPath != "" {
		embedder, err := embedding.NewONNXEmbedder(cfg.Embedding.ModelPath, cfg.Embedding.Dimensions, cfg.Embedding.MaxTokens)
		if err != nil {
			logger.Warn("embedding model unavailable", zap.Error(err))
		} else {
			defer embedder.Close()
			embeddingReady = true
			logger.Info("embedding model loaded",
				zap.String("path", cfg.Embedding.ModelPath),
				zap.Int("dimensions", embedder.Dimensions()),
			)
		}
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		watch := watcher.New(cfg.Watch.Directories, func(path string) {
			submitLocalFile(watchCtx, comp, path, logger)
		}, logger)
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watch.Stop()
	}

	srv := server.NewServer(comp.store, comp.orch, comp.index, comp.hub, embeddingReady, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// submitLocalFile registers a local PDF the same way an upload would and
// triggers processing.
func submitLocalFile(ctx context.Context, comp *components, path string, logger *zap.Logger) {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("inbox file vanished", zap.String("path", path), zap.Error(err))
		return
	}
	docID := fileid.DocumentID(filepath.Base(path), info.Size())
	job := &models.Job{
		DocumentID: docID,
		FileName:   filepath.Base(path),
		FilePath:   path,
		Size:       info.Size(),
		Status:     models.StatusUploaded,
	}
	if err := comp.store.CreateJob(ctx, job); err != nil {
		logger.Error("failed to register inbox file", zap.String("path", path), zap.Error(err))
		return
	}
	if _, err := comp.orch.Trigger(ctx, docID); err != nil {
		logger.Error("failed to trigger inbox file", zap.String("doc_id", docID), zap.Error(err))
	}
}

func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: vanban process [flags] <file.pdf>")
		os.Exit(1)
	}
	filePath, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		os.Exit(1)
	}
	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Printf("Cannot read file: %v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comp, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comp.Close()

	job := &models.Job{
		DocumentID: fileid.DocumentID(filepath.Base(filePath), info.Size()),
		FileName:   filepath.Base(filePath),
		FilePath:   filePath,
		Size:       info.Size(),
		Status:     models.StatusUploaded,
	}
	ctx := context.Background()
	if err := comp.store.CreateJob(ctx, job); err != nil {
		logger.Fatal("Failed to register job", zap.Error(err))
	}

	result, err := comp.orch.Process(ctx, job)
	if err != nil {
		_ = comp.store.UpdateStatus(ctx, job.DocumentID, models.StatusFailed, err.Error())
		logger.Fatal("Processing failed", zap.Error(err))
	}
	_ = comp.store.UpdateStatus(ctx, job.DocumentID, models.StatusCompleted, "")

	out, err := json.MarshalIndent(result.Extractions, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode records", zap.Error(err))
	}
	fmt.Println(string(out))
	fmt.Fprintf(os.Stderr, "%d pages, %d documents, output in %s\n",
		result.Metadata.TotalPages, result.Metadata.TotalDocuments, cfg.Output.Dir)
}
