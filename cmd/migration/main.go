package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Schema runner for the kv_snapshots store. Reads DB_URL and applies the SQL
// under db/migrations (overridable with MIGRATIONS_DIR).
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(strings.ToLower(strings.TrimSpace(os.Args[1])), os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func run(command string, args []string) error {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return errors.New("DB_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		return err
	}

	migrator, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := migrator.Close()
		if srcErr != nil {
			log.Printf("close migration source: %v", srcErr)
		}
		if dbErr != nil {
			log.Printf("close migration db: %v", dbErr)
		}
	}()

	switch command {
	case "up":
		return applyAll(migrator, dir)
	case "down":
		return rollback(migrator, args)
	case "version":
		return reportVersion(migrator)
	case "force":
		return forceVersion(migrator, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func applyAll(migrator *migrate.Migrate, dir string) error {
	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Printf("schema already current (dir=%s)", dir)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Printf("schema migrated (dir=%s)", dir)
	return nil
}

func rollback(migrator *migrate.Migrate, args []string) error {
	steps := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || parsed <= 0 {
			return fmt.Errorf("down expects a positive step count, got %q", args[0])
		}
		steps = parsed
	}

	if err := migrator.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Printf("nothing to roll back")
			return nil
		}
		return fmt.Errorf("roll back %d step(s): %w", steps, err)
	}

	log.Printf("rolled back %d step(s)", steps)
	return nil
}

func reportVersion(migrator *migrate.Migrate) error {
	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("version: none")
		fmt.Println("dirty: false")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	fmt.Printf("version: %d\n", version)
	fmt.Printf("dirty: %t\n", dirty)
	return nil
}

func forceVersion(migrator *migrate.Migrate, args []string) error {
	if len(args) == 0 {
		return errors.New("force expects a version argument")
	}

	version, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || version < 0 {
		return fmt.Errorf("force expects a non-negative version, got %q", args[0])
	}

	if err := migrator.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}

	log.Printf("forced version to %d", version)
	return nil
}

// migrationsDir prefers an explicit MIGRATIONS_DIR, then the repo layout,
// then the container image layout.
func migrationsDir() (string, error) {
	for _, candidate := range []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	} {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", errors.New("no migrations directory found; set MIGRATIONS_DIR or run from the repo root")
}

func usage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [n]|version|force <v>>\n", prog)
}
