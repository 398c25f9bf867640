package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/distributor/backend/internal/infrastructure/config"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/infrastructure/migration"
	"github.com/distributor/backend/migrations"
)

// offline commands work on migration files only; the rest need a database.
type offlineFunc func(dir string, source fs.FS, args []string, log *zap.Logger) error

type onlineFunc func(m *migration.Migrator, args []string, log *zap.Logger) error

var offline = map[string]offlineFunc{
	"create": createMigration,
	"list":   listMigrations,
}

var online = map[string]onlineFunc{
	"up":   func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() },
	"down": func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() },
	"step": func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, args []string, _ *zap.Logger) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return m.GoTo(uint(v))
	},
	"force": func(m *migration.Migrator, args []string, log *zap.Logger) error {
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		log.Warn("Forcing migration version; the dirty flag is cleared without running SQL")
		return m.Force(v)
	},
	"version": func(m *migration.Migrator, _ []string, log *zap.Logger) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	},
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	name, rest := args[0], args[1:]

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
		Service:    "distributor-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	var source fs.FS = migrations.FS
	if *dir != "" {
		source = os.DirFS(*dir)
	}

	if err := run(name, rest, *dir, source, log); err != nil {
		log.Error("Migration command failed", zap.String("command", name), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(name string, args []string, dir string, source fs.FS, log *zap.Logger) error {
	if fn, ok := offline[name]; ok {
		return fn(dir, source, args, log)
	}
	fn, ok := online[name]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown command %q", name)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("SQL migrations target PostgreSQL, database.driver is %q (SQLite schemas come from database.auto_migrate)", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		return err
	}
	defer m.Close()

	log.Info("Running migration command", zap.String("command", name), zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName))
	return fn(m, args, log)
}

func createMigration(dir string, _ fs.FS, args []string, log *zap.Logger) error {
	if len(args) == 0 {
		return errors.New("usage: migrate create <name> [description]")
	}
	if dir == "" {
		dir = "migrations"
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func listMigrations(_ string, source fs.FS, _ []string, log *zap.Logger) error {
	entries, err := migration.ListMigrations(source)
	if err != nil {
		return err
	}
	log.Info("Available migrations", zap.Int("count", len(entries)))
	for _, e := range entries {
		fmt.Printf("  %06d  %s\n", e.Version, e.Name)
	}
	return nil
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: migrate [-path dir] [-log-level level] <command> [args]

Schema commands (PostgreSQL from config.toml / DISTRIBUTOR_DATABASE_*):
  up                    apply every pending migration
  down                  roll back every migration
  step <n>              apply n migrations, negative n rolls back
  goto <version>        migrate up or down to version
  version               print the applied version and dirty flag
  force <version>       set the version without running SQL

File commands:
  create <name> [desc]  write an up/down pair into -path (default ./migrations)
  list                  list migrations (embedded unless -path is given)
`)
}
