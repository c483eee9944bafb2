package database

import (
	"log"

	"github.com/abenfraj/menufique-sub001/internal/domain/billing"
	"github.com/abenfraj/menufique-sub001/internal/domain/menus"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the schema. The handle is returned
// to the caller instead of stored in a package global so tests can substitute
// their own database.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Println("pgcrypto extension not available:", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs AutoMigrate for every domain model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&users.PasswordResetToken{},

		&menus.Menu{},
		&menus.Category{},
		&menus.Dish{},

		&billing.Payment{},
	)
}
