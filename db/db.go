// Package db is the local albums archive: a sqlite3 file accumulating every
// normalized release the importer has seen, across runs and months.
package db

import (
	_ "embed"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/albumshare/mbimport/data"
)

// DB represents the archive's sqlite3 database file.
type DB struct{ *gorm.DB }

//go:embed schema.sql
var schema string

// Open returns a connection to a migrated sqlite3 archive file on disk,
// creating the file and running migrations if necessary.
func Open(filename string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening archive file at '%s': %w", filename, err)
	}

	db := &DB{gdb}

	if err := db.Exec(schema).Error; err != nil {
		return nil, fmt.Errorf("error migrating archive at '%s': %w", filename, err)
	}

	return db, nil
}

func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// UpsertReleases inserts the rows into the albums table, replacing any row
// that already has the same mb_release_id.
func (db *DB) UpsertReleases(rows []data.Release) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.
		Table("albums").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mb_release_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, 250).
		Error; err != nil {
		return fmt.Errorf("error upserting %d albums: %w", len(rows), err)
	}
	return nil
}

// CountReleases reports how many albums the archive holds.
func (db *DB) CountReleases() (int64, error) {
	var count int64
	if err := db.Table("albums").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting albums: %w", err)
	}
	return count, nil
}
