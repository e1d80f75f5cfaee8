package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

const commandTimeout = 30 * time.Second

type options struct {
	command string
	steps   int
	dsn     string
}

func parseOptions(args []string) options {
	var opts options

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	fs.StringVar(&opts.command, "direction", "up", "migration direction: up|down|status")
	fs.IntVar(&opts.steps, "steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	fs.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (fallback: STOREFRONT_POSTGRES_DSN)")
	_ = fs.Parse(args)

	if strings.TrimSpace(opts.dsn) == "" {
		opts.dsn = strings.TrimSpace(os.Getenv("STOREFRONT_POSTGRES_DSN"))
	}
	opts.command = strings.ToLower(strings.TrimSpace(opts.command))

	return opts
}

// runCommand выполняет команду миграций и печатает итоговый статус схемы.
func runCommand(ctx context.Context, store *postgres.Store, opts options) error {
	switch opts.command {
	case "up":
		if err := store.MigrateUp(ctx, opts.steps); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		steps := opts.steps
		if steps <= 0 {
			steps = 1
		}
		if err := store.MigrateDown(ctx, steps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case "status":
		// Только печать статуса ниже.
	default:
		return fmt.Errorf("unsupported direction: %s (use up|down|status)", opts.command)
	}

	version, applied, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	fmt.Printf("%s ok: version=%d applied=%d\n", opts.command, version, applied)
	return nil
}

func main() {
	opts := parseOptions(os.Args[1:])
	if opts.dsn == "" {
		fail("STOREFRONT_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, opts.dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := runCommand(ctx, store, opts); err != nil {
		fail("%v", err)
	}
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
