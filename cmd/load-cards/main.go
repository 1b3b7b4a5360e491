// Command load-cards upserts a CSV deck into one of the card catalogs.
package main

import (
	"flag"
	"log/slog"
	"os"

	"material-mastery/internal/config"
	"material-mastery/internal/db"
	"material-mastery/internal/logging"
)

func main() {
	kindFlag := flag.String("kind", "", "card catalog: material, challenge or bonus")
	filePath := flag.String("file", "", "path to cards csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	kind, err := db.ParseCardKind(*kindFlag)
	if err != nil {
		logger.Error("invalid card kind", "error", err)
		os.Exit(2)
	}
	if *filePath == "" {
		logger.Error("-file is required")
		os.Exit(2)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	loaded, err := db.LoadCards(conn, kind, *filePath)
	if err != nil {
		logger.Error("failed to load cards", "kind", kind, "file", *filePath, "error", err)
		os.Exit(1)
	}
	logger.Info("cards loaded", "kind", kind, "count", loaded)
}
