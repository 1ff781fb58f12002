// Package history persists conformance check runs to a SQL store so a
// team can track when an architecture started passing or failing over
// time, grounded on the teacher's db/sqlite.go Connect/Migrate shape and
// models/models.go's gorm model style, rewired from code-transform
// sessions to conformance runs.
package history

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	glebarezsqlite "github.com/glebarez/sqlite"
	tursosqlite "gorm.io/driver/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/archtest-go/conform/internal/domain"
)

// Run is one recorded invocation of the checker against a crate root.
type Run struct {
	ID            string `gorm:"primaryKey;type:varchar(20)"`
	CrateRoot     string `gorm:"type:varchar(500);index"`
	Passed        bool   `gorm:"index"`
	ViolationKind string `gorm:"type:varchar(40)"`
	Witnesses     datatypes.JSON
	ParseErrors   int
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (Run) TableName() string { return "runs" }

// Connect opens dsn and runs migrations. A `libsql://` (or `http(s)://`)
// DSN routes through gorm's sqlite dialector with a libsql-backed
// connector for a shared remote ledger; any other DSN is treated as a
// local file path opened via the pure-Go, cgo-free sqlite driver.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	if !isURL(dsn) {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("history: creating database directory: %w", err)
			}
		}
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("CONFORM_LIBSQL_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("history: creating libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = tursosqlite.New(tursosqlite.Config{
			DriverName: "libsql",
			Conn:       conn,
			DSN:        dsn,
		})
	} else {
		dialector = glebarezsqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("history: connecting: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("history: migrating: %w", err)
	}
	return db, nil
}

func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql")
}

// Migrate runs the schema migration for the history store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Run{})
}

// Record stores the outcome of a checker.Report against crateRoot,
// serializing the violation's witness chain, if any, as JSON.
func Record(db *gorm.DB, id, crateRoot string, violation *domain.RuleViolation, parseErrors int) error {
	run := Run{
		ID:          id,
		CrateRoot:   crateRoot,
		Passed:      violation == nil,
		ParseErrors: parseErrors,
	}
	if violation != nil {
		run.ViolationKind = string(violation.Kind)
		encoded, err := encodeWitnesses(violation.Witnesses)
		if err != nil {
			return fmt.Errorf("history: encoding witnesses: %w", err)
		}
		run.Witnesses = encoded
	}
	return db.Create(&run).Error
}
