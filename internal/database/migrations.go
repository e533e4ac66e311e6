package database

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MigrationsPath holds the hand-written SQL applied after AutoMigrate.
// Files named <version>.<dialect>.sql only run on that dialect, and
// rollback_<file> undoes <file>.
var MigrationsPath = "./migrations"

type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;size:255"`
	AppliedAt time.Time `gorm:"index"`
}

// RunMigrations applies every pending SQL file for the current dialect in
// name order. Each file and its bookkeeping row commit together.
func RunMigrations(db *gorm.DB) ([]string, error) {
	if err := db.AutoMigrate(&Migration{}); err != nil {
		return nil, errors.Wrap(err, "create migrations table")
	}

	files, err := pendingFiles(db)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(files))
	for _, file := range files {
		version := filepath.Base(file)

		sqlContent, err := os.ReadFile(file)
		if err != nil {
			return applied, errors.Wrapf(err, "read migration %s", version)
		}

		log.Printf("▶️  Applying migration: %s", version)
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(sqlContent)).Error; err != nil {
				return err
			}
			return tx.Create(&Migration{Version: version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return applied, errors.Wrapf(err, "apply migration %s", version)
		}
		applied = append(applied, version)
	}

	log.Printf("✅ SQL migrations up to date (%d applied)", len(applied))
	return applied, nil
}

func pendingFiles(db *gorm.DB) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(MigrationsPath, "*.sql"))
	if err != nil {
		return nil, errors.Wrap(err, "list migrations")
	}
	sort.Strings(files)

	var done []string
	if err := db.Model(&Migration{}).Pluck("version", &done).Error; err != nil {
		return nil, errors.Wrap(err, "load applied migrations")
	}
	seen := make(map[string]bool, len(done))
	for _, v := range done {
		seen[v] = true
	}

	pending := make([]string, 0, len(files))
	for _, file := range files {
		name := filepath.Base(file)
		if strings.HasPrefix(name, "rollback_") || seen[name] || !forDialect(name, db.Dialector.Name()) {
			continue
		}
		pending = append(pending, file)
	}
	return pending, nil
}

func forDialect(filename, dialect string) bool {
	parts := strings.Split(strings.TrimSuffix(filename, ".sql"), ".")
	if len(parts) < 2 {
		return true
	}
	return parts[len(parts)-1] == dialect
}

func RollbackMigration(db *gorm.DB, version string) error {
	var migration Migration
	if err := db.Where("version = ?", version).First(&migration).Error; err != nil {
		return errors.Wrapf(err, "migration %s", version)
	}

	sqlContent, err := os.ReadFile(filepath.Join(MigrationsPath, "rollback_"+version))
	if err != nil {
		return errors.Wrapf(err, "rollback file for %s", version)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(sqlContent)).Error; err != nil {
			return err
		}
		return tx.Delete(&migration).Error
	})
	if err != nil {
		return errors.Wrapf(err, "roll back %s", version)
	}

	log.Printf("⏪ Rolled back migration: %s", version)
	return nil
}

func GetAppliedMigrations(db *gorm.DB) ([]Migration, error) {
	var migrations []Migration
	if err := db.Order("applied_at DESC").Find(&migrations).Error; err != nil {
		return nil, err
	}
	return migrations, nil
}
