// Package rdb implements the stores on top of gorm for MySQL and PostgreSQL.
package rdb

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Open connects with the named driver ("mysql" or "postgres") and migrates the schema.
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("rdb: unsupported driver %q", driver)
	}
	return OpenDialector(dialector, debug)
}

func OpenDialector(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if debug {
		cfg.Logger = gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
	} else {
		cfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("rdb: open: %w", err)
	}
	if err := db.AutoMigrate(model.All...); err != nil {
		return nil, fmt.Errorf("rdb: migrate: %w", err)
	}
	return db, nil
}

func newID() string {
	return uuid.NewString()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

// affected reports a write that matched no row as ErrNotFound.
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s literally, for use with ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// scoped applies a club scope on column. ok is false when the scope can match nothing.
func scoped(q *gorm.DB, column string, scope repository.Scope) (*gorm.DB, bool) {
	if scope.All() {
		return q, true
	}
	if len(scope) == 0 {
		return q, false
	}
	return q.Where(column+" IN ?", []string(scope)), true
}
