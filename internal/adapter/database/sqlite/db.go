package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/rs/zerolog"

	"todoapi/pkg/config"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

func dsn(path string) string {
	if path == MemoryPath {
		return path
	}

	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// NewDB opens the database at cfg.Path, applies pending migrations and
// returns a handle with a query builder using "?" placeholders.
func NewDB(cfg config.DatabaseConfig) (*DB, error) {
	source := dsn(cfg.Path)

	sqlDB, err := otelsql.Open("sqlite3", source,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todoapi"),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}

	if cfg.LogQueries {
		logger := zerolog.New(os.Stdout).Level(zerolog.DebugLevel).With().Timestamp().Logger()
		logged := sqldblogger.OpenDriver(source, sqlDB.Driver(), zerologadapter.New(logger))

		sqlDB.Close()
		sqlDB = logged
	}

	configurePool(sqlDB, cfg)
	otelsql.ReportDBStatsMetrics(sqlDB)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", cfg.Path, err)
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}, nil
}

// An in-memory database lives inside a single connection, so the pool must
// never open a second one or recycle the first.
func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	if cfg.Path == MemoryPath {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		return
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}

// RunMigrations applies the embedded migrations on db. The migrate instance is
// not closed since that would close db as well.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
