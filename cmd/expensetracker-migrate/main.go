// Command expensetracker-migrate applies or inspects the database schema
// without starting the server.
//
// Usage:
//
//	expensetracker-migrate [up|version]
package main

import (
	"fmt"
	"os"

	"expensetracker/internal/cli"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentMigrate)
	cfg := cli.LoadAndValidateConfig(logger)

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		if err := cli.Migrate(logger, cfg); err != nil {
			logger.Error("Migration failed", log.FieldError, err, log.FieldOperation, log.OpMigrate)
			os.Exit(1)
		}
	case "version":
		version, dirty, err := storage.SchemaVersion(storage.Dialect(cfg.DatabaseDriver), cfg.DSN())
		if err != nil {
			logger.Error("Failed to read schema version", log.FieldError, err)
			os.Exit(1)
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q, expected up or version\n", command)
		os.Exit(2)
	}
}
