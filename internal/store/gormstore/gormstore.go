// Package gormstore implements [store.Store] on top of GORM.
//
// PostgreSQL is the production backend; SQLite (through mattn/go-sqlite3)
// serves local development and the test suite. Both get the same schema from
// AutoMigrate, including ON DELETE CASCADE foreign keys from each level of
// the roadmap tree to the next, so deleting a plan, milestone or step removes
// its descendants in the database itself.
//
// No method opens a transaction spanning several roadmap levels. Batch
// inserts of one level are a single INSERT statement.
package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MDAnandaB35/study-planner/internal/models"
	"github.com/MDAnandaB35/study-planner/internal/store"
)

type GormStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to PostgreSQL using a libpq style DSN or URL.
func NewPostgresStore(dsn string) (*GormStore, error) {
	return Open(postgres.Open(dsn))
}

// NewSQLiteStore opens a SQLite database. Foreign key enforcement is switched
// on for every connection, and the pool is limited to one connection so that
// ":memory:" databases are shared by all queries.
func NewSQLiteStore(path string) (*GormStore, error) {
	s, err := Open(sqlite.Open(sqliteDSN(path)))
	if err != nil {
		return nil, err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return s, nil
}

func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Open wraps an arbitrary GORM dialector.
func Open(dialector gorm.Dialector) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &GormStore{db: db}, nil
}

var _ store.Store = (*GormStore)(nil)

func (s *GormStore) getDB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(models.AllModels()...)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// first loads a single row into dest, reporting false when it does not exist.
func first(tx *gorm.DB, dest any, query string, args ...any) (bool, error) {
	err := tx.Where(query, args...).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// lastOrder returns the highest order_index among rows of table matching the
// parent filter, or -1 when there are none.
func lastOrder(tx *gorm.DB, table, column string, parent any) (int, error) {
	var last sql.NullInt64
	err := tx.Table(table).
		Select("MAX(order_index)").
		Where(column+" = ?", parent).
		Row().
		Scan(&last)
	if err != nil {
		return 0, err
	}
	if !last.Valid {
		return -1, nil
	}
	return int(last.Int64), nil
}
