package database

import (
	"log"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs AutoMigrate for every domain model. Called from cmd/migrate
// and on startup when DB_AUTOMIGRATE=true.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Department{},
		&model.Employee{},
		&model.User{},
		&model.ItemCategory{},
		&model.Item{},
		&model.ItemTransaction{},
		&model.Report{},
		&model.ReportDetail{},
		&model.AdminActivity{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}
	return err
}
