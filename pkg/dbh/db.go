// Package dbh opens small sqlite databases whose schema is defined by a list of SQL migrations.
package dbh

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/migration"
	"github.com/cyclopcam/logs"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Name of the database/sql driver registered by go-sqlite3
const DriverSqlite = "sqlite3"

type OpenFlags int

const (
	// Erase the database file before opening it
	OpenFlagWipe OpenFlags = 1 << iota
)

// MakeMigrations creates one migration per SQL script, numbered from 1
func MakeMigrations(log logs.Log, scripts []string) []migration.Migrator {
	var migs []migration.Migrator
	n := 0
	for _, s := range scripts {
		migs = append(migs, MakeMigrationFromSQL(log, &n, s))
	}
	return migs
}

// MakeMigrationFromSQL wraps an SQL script as migration number *counter + 1, and increments *counter
func MakeMigrationFromSQL(log logs.Log, counter *int, script string) migration.Migrator {
	*counter++
	number := *counter
	return func(tx migration.LimitedTx) error {
		log.Debugf("Running migration %v: '%v...'", number, summarizeSQL(script, 40))
		if _, err := tx.Exec(script); err != nil {
			return fmt.Errorf("Migration %v failed: %w", number, err)
		}
		return nil
	}
}

// First line of the script, truncated to maxLen
func summarizeSQL(script string, maxLen int) string {
	s := strings.TrimSpace(script)
	if nl := strings.IndexAny(s, "\r\n"); nl != -1 {
		s = s[:nl]
	}
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// OpenDB opens (or creates) the sqlite database at filename, brings it up to date
// with migrations, and returns a gorm handle to it.
func OpenDB(log logs.Log, filename string, migrations []migration.Migrator, flags OpenFlags) (*gorm.DB, error) {
	if flags&OpenFlagWipe != 0 {
		if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("Failed to erase database '%v': %w", filename, err)
		}
	}

	// The migration package needs its own database/sql handle
	sqlDB, err := migration.Open(DriverSqlite, filename, migrations)
	if err != nil {
		return nil, fmt.Errorf("Failed to migrate database '%v': %w", filename, err)
	}
	sqlDB.Close()

	return gorm.Open(sqlite.Open(filename), &gorm.Config{
		// Our tables are created by hand-written migrations, which use singular names
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger: logger.New(gormLogWriter{log}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// gormLogWriter sends gorm's messages to our log
type gormLogWriter struct {
	log logs.Log
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf("gorm: "+format, args...)
}
