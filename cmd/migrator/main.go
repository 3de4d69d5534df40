package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type config struct {
	migrationsPath  string
	migrationsTable string
	dsn             string
	down            bool
}

// Applies the SQL schema used by the postgres storage driver. The mongo
// driver needs no migrations.
func main() {
	var cfg config

	flag.StringVar(&cfg.dsn, "dsn", os.Getenv("DSN_STRING"), "database connection string")
	// path to migrations
	flag.StringVar(&cfg.migrationsPath, "migrations-path", "./migrations", "path to migrations")
	// table for keeping info about migrations
	flag.StringVar(&cfg.migrationsTable, "migrations-table", "migrations", "name of migrations table")
	flag.BoolVar(&cfg.down, "down", false, "roll back all migrations")
	flag.Parse()

	if cfg.dsn == "" {
		panic("dsn is required")
	}

	m, err := migrate.New(
		"file://"+cfg.migrationsPath,
		withMigrationsTable(cfg.dsn, cfg.migrationsTable),
	)
	if err != nil {
		panic(err)
	}
	defer m.Close()

	if cfg.down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")

			return
		}

		panic(err)
	}

	fmt.Println("migrations applied")
}

func withMigrationsTable(dsn, table string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sx-migrations-table=%s", dsn, sep, table)
}
