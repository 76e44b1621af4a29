package sqlite

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrDatabase replaces driver errors that carry no useful information for callers
var ErrDatabase = errors.New("database error")

// Connect opens the SQLite database at path, enables foreign keys and migrates the schema.
// Use ":memory:" for a throwaway database.
func Connect(path string) (*gorm.DB, error) {
	config := &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: newLogger(log.Logger),
	}

	db, err := gorm.Open(gormsqlite.Open(dsn(path)), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// A single connection keeps writes serialized and avoids SQLITE_BUSY
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := db.Callback().Query().After("*").Register("coinspot:after_query_general", generalCallback); err != nil {
		return nil, err
	}
	if err := db.Callback().Create().After("*").Register("coinspot:after_create_general", generalCallback); err != nil {
		return nil, err
	}
	if err := db.Callback().Update().After("*").Register("coinspot:after_update_general", generalCallback); err != nil {
		return nil, err
	}
	if err := db.Callback().Delete().After("*").Register("coinspot:after_delete_general", generalCallback); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&goalModel{}, &ledgerEntryModel{}, &badgeModel{}, &profileModel{}, &settingModel{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// generalCallback logs driver errors and replaces them with ErrDatabase
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = fmt.Errorf("%w: %s", ErrDatabase, db.Error.Error())
	}
}
