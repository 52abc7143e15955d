package main

import (
	"os"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/database"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Runs schema migration and seeds the bootstrap superadmin account so a
// fresh deployment can be logged into.
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logger.L().Info("no configs/.env file found, using process environment")
	}
	log := logger.L()

	dsn := "postgres://" + env("DB_USER", "postgres") + ":" + env("DB_PASSWORD", "postgres") +
		"@" + env("DB_HOST", "localhost") + ":" + env("DB_PORT", "5432") +
		"/" + env("DB_NAME", "postgres") + "?sslmode=" + env("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("schema migrated")

	if err := seed(db); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete")
}

func seed(db *gorm.DB) error {
	email := env("SEED_SUPERADMIN_EMAIL", "admin@warehouse.local")
	password := env("SEED_SUPERADMIN_PASSWORD", "changeme")

	var existing int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		dept := model.Department{Name: "Administration", Description: "Default department"}
		if err := tx.Where("name = ?", dept.Name).FirstOrCreate(&dept).Error; err != nil {
			return err
		}

		emp := model.Employee{
			FirstName:    "System",
			LastName:     "Administrator",
			DepartmentID: dept.ID,
			Position:     "Superadmin",
			Email:        email,
		}
		if err := tx.Create(&emp).Error; err != nil {
			return err
		}

		user := model.User{
			Email:      email,
			Password:   string(hash),
			EmployeeID: emp.ID,
			Role:       model.RoleSuperadmin,
		}
		return tx.Create(&user).Error
	})
}
