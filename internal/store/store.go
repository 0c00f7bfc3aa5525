// Package store persists partners and payments in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/partnerpay/partnerpay/internal/log"
)

var (
	// ErrNotFound is returned when a partner or payment ID does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPartnerInUse is returned when deleting a partner that payments reference.
	ErrPartnerInUse = errors.New("partner has payments")
	// ErrDuplicatePartner is returned when a partner name is already taken.
	ErrDuplicatePartner = errors.New("partner name already exists")
	// ErrUnknownPartner is returned when a payment references a missing partner.
	ErrUnknownPartner = errors.New("payment references unknown partner")
)

const timeFormat = time.RFC3339Nano

// Store is a SQLite-backed repository. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

// Open creates the database file if needed, runs migrations and returns a Store.
// A nil logger discards output.
func Open(ctx context.Context, dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}
	logger.Debug("migrations applied", log.FieldOperation, log.OpMigrate, log.FieldPath, dbPath)

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// dsn enables foreign keys and a busy timeout on every pooled connection.
func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// inTx runs fn in a transaction, committing on success and rolling back otherwise.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", log.FieldError, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeFormat)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at %q: %w", v, err)
	}
	return t, nil
}

func parseDecimal(field, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, v, err)
	}
	return d, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
