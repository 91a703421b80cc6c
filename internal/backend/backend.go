// Package backend wires configuration to a concrete books store.
package backend

import (
	"fmt"
	"log/slog"

	"desglose/internal/amqp"
	"desglose/internal/books"
	"desglose/internal/books/memory"
	"desglose/internal/books/xlsx"
	"desglose/internal/config"
	"desglose/internal/services"
	"desglose/internal/storage"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the store and an optional cleanup function.
type Result struct {
	Store   books.Store
	Cleanup CleanupFunc
}

// New creates the books store selected by the configuration.
//
//	xlsx   — workbook-per-year files (default)
//	memory — volatile, for development
//	sqlite — SQLite primary, with optional AMQP-driven workbook export
func New(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case "xlsx":
		logger.Info("Initialized xlsx backend", "books_dir", cfg.BooksDir)
		return &Result{Store: xlsx.New(cfg.BooksDir)}, nil

	case "memory":
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil

	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}

		var amqpClient *amqp.Client
		if cfg.AMQPURL != "" {
			amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				logger.Warn("Failed to initialize AMQP client, continuing without workbook sync", "error", err)
			} else {
				logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			}
		}

		svc := services.NewBookService(repo, amqpClient)
		logger.Info("Initialized SQLite backend",
			"db_path", cfg.SQLiteDBPath,
			"amqp_enabled", amqpClient != nil)
		return &Result{Store: svc, Cleanup: svc.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
