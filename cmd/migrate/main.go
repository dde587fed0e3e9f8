package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/personnel-promotion/internal/platform/config"
)

const usage = "usage: migrate [-config FILE] [-dir DIR] up|down|drop|version|steps N|force V"

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing members/career_records/promotions migrations")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"up"}
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	m, err := newMigrate(*migrationsDir, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to open migrations: %v", err)
	}
	defer m.Close()

	msg, err := run(m, args)
	if err != nil {
		log.Fatalf("migration %s failed: %v", args[0], err)
	}
	log.Print(msg)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func newMigrate(dir, dsn string) (*migrate.Migrate, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// migrator は *migrate.Migrate のうち run が使う操作です。
type migrator interface {
	Up() error
	Down() error
	Drop() error
	Steps(n int) error
	Force(version int) error
	Version() (uint, bool, error)
}

func run(m migrator, args []string) (string, error) {
	action := args[0]

	switch action {
	case "up":
		return action + " completed", ignoreNoChange(m.Up())
	case "down":
		return action + " completed", ignoreNoChange(m.Down())
	case "drop":
		return action + " completed", m.Drop()
	case "steps", "force":
		if len(args) != 2 {
			return "", fmt.Errorf("%s requires one integer argument: %s", action, usage)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("%s: invalid argument %q: %w", action, args[1], err)
		}
		if action == "steps" {
			return fmt.Sprintf("steps %d completed", n), ignoreNoChange(m.Steps(n))
		}
		return fmt.Sprintf("forced version %d", n), m.Force(n)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return "no migration applied", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("version=%d dirty=%t", version, dirty), nil
	default:
		return "", fmt.Errorf("unsupported action %q: %s", action, usage)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
