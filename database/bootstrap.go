// database/bootstrap.go
package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"

	"herbal/entities"
)

// Open opens (or creates) the sqlite file at path and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	return open(dsn)
}

// OpenInMemory opens a private in-memory database. Connections opened with the
// same name share data, so the pool is pinned to a single connection.
func OpenInMemory(name string) (*gorm.DB, error) {
	db, err := open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Plant{},
		&entities.Admin{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
