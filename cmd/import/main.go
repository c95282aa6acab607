// Command import bulk-loads bills from a JSON or YAML document into the
// ledger database.
//
//	import -file bills.yaml -owner <user-id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/importer"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	file := flag.String("file", "", "document to import (JSON or YAML)")
	owner := flag.String("owner", "", "user ID that will own the imported bills")
	format := flag.String("format", "", "json or yaml (default: from the file extension)")
	dbPath := flag.String("db", "", "database path (default: DB_PATH)")
	flag.Parse()

	if err := run(*file, *owner, *format, *dbPath); err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func run(file, owner, format, dbPath string) error {
	if file == "" || owner == "" {
		flag.Usage()
		return errors.New("-file and -owner are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.LogLevel)
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if format == "" {
		format = filepath.Ext(file)
	}

	f, err := importer.ParseFormat(format)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	drafts, err := importer.Decode(data, f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	user, err := store.GetUserByID(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to look up owner: %w", err)
	}
	if user == nil {
		slog.Warn("Owner is not a registered user; bills will only be editable with a token for that ID", "owner", owner)
	}

	bills, err := importer.New(store).Import(ctx, owner, drafts)
	if err != nil {
		return err
	}
	slog.Info("Import complete", "bills", len(bills), "database", dbPath)
	return nil
}
