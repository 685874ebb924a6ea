package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/config"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/db"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/exportstore/local"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/insights"
	claudeinsights "github.com/Belkadi-hamza/Inventory-Management-System/internal/insights/claude"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/live"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/logging"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/service"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/stock"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/store"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	userStore := store.NewUserStore(database)
	itemStore := store.NewItemStore(database)
	txStore := store.NewTransactionStore(database)

	itemHub := live.NewHub(func(ctx context.Context, ownerID string) ([]*domain.Item, error) {
		return itemStore.ListByUser(ctx, ownerID)
	}, logger)
	txHub := live.NewHub(func(ctx context.Context, ownerID string) ([]*domain.Transaction, error) {
		return txStore.ListByUser(ctx, ownerID)
	}, logger)

	exportStg, err := local.NewLocalExportStore(cfg.ExportPath)
	if err != nil {
		logger.Error("failed to initialize export store", "error", err)
		return
	}

	inventory := service.NewInventoryService(
		itemStore, txStore,
		stock.NewProcessor(itemStore, txStore, logger),
		itemHub, txHub,
		exportStg,
		newSummarizer(cfg, logger),
		logger,
	)

	authSvc := auth.NewService(userStore, &auth.LogMailer{Logger: logger}, authSecret(cfg, logger), cfg.SessionTTL, logger)

	server := web.NewServer(inventory, authSvc, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// authSecret returns the configured signing secret, or generates an
// ephemeral one. An ephemeral secret invalidates all sessions on restart,
// so it only suits local use.
func authSecret(cfg *config.Config, logger *slog.Logger) string {
	if cfg.AuthSecret != "" {
		return cfg.AuthSecret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("failed to generate session secret: %v", err)
	}
	logger.Warn("AUTH_SECRET not set, sessions will not survive a restart")
	return hex.EncodeToString(buf)
}

func newSummarizer(cfg *config.Config, logger *slog.Logger) insights.Summarizer {
	switch cfg.InsightsBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when INSIGHTS_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude insights backend", "model", cfg.ClaudeModel)
		return claudeinsights.NewClaudeSummarizer(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	default:
		logger.Info("insights disabled")
		return nil
	}
}
