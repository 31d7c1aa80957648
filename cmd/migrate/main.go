package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

// migrator is the part of migration.Migrator the commands drive
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
}

type command struct {
	usage string
	help  string
	nargs int
	run   func(m migrator, log *zap.Logger, args []string) error
}

var errUsage = errors.New("usage")

var commands = map[string]command{
	"up": {
		usage: "up",
		help:  "Apply all pending migrations",
		run: func(m migrator, _ *zap.Logger, _ []string) error {
			return m.Up()
		},
	},
	"down": {
		usage: "down",
		help:  "Roll back every migration (requires -yes)",
		run: func(m migrator, _ *zap.Logger, _ []string) error {
			if !assumeYes {
				return fmt.Errorf("%w: down drops the whole schema, pass -yes to confirm", errUsage)
			}
			return m.Down()
		},
	},
	"steps": {
		usage: "steps <n>",
		help:  "Apply n migrations, negative n rolls back",
		nargs: 1,
		run: func(m migrator, _ *zap.Logger, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n == 0 {
				return fmt.Errorf("%w: steps needs a non-zero integer, got %q", errUsage, args[0])
			}
			return m.Steps(n)
		},
	},
	"redo": {
		usage: "redo",
		help:  "Roll back the latest migration and apply it again",
		run: func(m migrator, _ *zap.Logger, _ []string) error {
			if err := m.Steps(-1); err != nil {
				return err
			}
			return m.Steps(1)
		},
	},
	"version": {
		usage: "version",
		help:  "Print the applied version and dirty flag",
		run: func(m migrator, log *zap.Logger, _ []string) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				log.Info("Schema is empty")
				return nil
			}
			log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		},
	},
	"force": {
		usage: "force <version>",
		help:  "Mark version as applied and clear the dirty flag",
		nargs: 1,
		run: func(m migrator, log *zap.Logger, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil || version < 0 {
				return fmt.Errorf("%w: force needs a version number, got %q", errUsage, args[0])
			}
			log.Warn("Forcing schema version", zap.Int("version", version))
			return m.Force(version)
		},
	},
}

var assumeYes bool

// dispatch runs the command named by args[0]
func dispatch(m migrator, log *zap.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", errUsage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	if len(args)-1 != cmd.nargs {
		return fmt.Errorf("%w: %s", errUsage, cmd.usage)
	}
	return cmd.run(m, log, args[1:])
}

func main() {
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&assumeYes, "yes", false, "Confirm destructive commands")
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	log, err := logger.New(logger.ConfigForEnvironment("development", *logLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("Migrations target postgres; sqlite schemas are created by the server on startup",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to reach database", zap.String("host", cfg.Database.Host), zap.Error(err))
	}

	m, err := migration.New(db, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	if err := dispatch(m, log, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatal("Migration failed", zap.Strings("args", flag.Args()), zap.Error(err))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: migrate [-log-level level] [-yes] <command> [argument]")
	fmt.Fprintln(w, "\nCommands:")
	for _, name := range []string{"up", "down", "steps", "redo", "version", "force"} {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-18s %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintln(w, "\nConnection settings come from SHOP_DATABASE_* variables or config.toml.")
}
