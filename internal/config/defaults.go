package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "/usr/local/var/vanban/data/uploads"
	}
	if cfg.Upload.MaxFileSize == 0 {
		cfg.Upload.MaxFileSize = 100 << 20
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "/usr/local/var/vanban/data/output"
	}
	if cfg.OCR.Endpoint == "" {
		cfg.OCR.Endpoint = "http://localhost:9000/recognize"
	}
	if cfg.OCR.DPI == 0 {
		cfg.OCR.DPI = 200
	}
	if cfg.OCR.BatchSize == 0 {
		cfg.OCR.BatchSize = 4
	}
	if cfg.OCR.Workers == 0 {
		cfg.OCR.Workers = 4
	}
	if cfg.OCR.MaxPages == 0 {
		cfg.OCR.MaxPages = 500
	}
	if cfg.OCR.PdftoppmPath == "" {
		cfg.OCR.PdftoppmPath = "pdftoppm"
	}
	if cfg.OCR.RecognitionSlots == 0 {
		cfg.OCR.RecognitionSlots = 1
	}
	if cfg.OCR.Timeout == 0 {
		cfg.OCR.Timeout = Duration(2 * time.Minute)
	}
	if cfg.Store.DatabasePath == "" {
		cfg.Store.DatabasePath = "/usr/local/var/vanban/data/db/vanban.db"
	}
	if cfg.Store.SearchIndexPath == "" {
		cfg.Store.SearchIndexPath = "/usr/local/var/vanban/data/indices/segments.bleve"
	}
	if cfg.Store.CacheTTL == 0 {
		cfg.Store.CacheTTL = Duration(time.Hour)
	}
	if cfg.Store.CacheSweep == 0 {
		cfg.Store.CacheSweep = Duration(5 * time.Minute)
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
}
