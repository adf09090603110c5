package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ngfenglong/JiakAIBot/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file found, using process environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.DailySummary{},
		&models.AccessRequest{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// AdminIDs returns the fixed admin allow-list from ADMIN_TELEGRAM_IDS
// (comma-separated Telegram ids). Admin identity is independent of the
// access-request lifecycle.
func AdminIDs() []string {
	raw := os.Getenv("ADMIN_TELEGRAM_IDS")
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsAdmin reports whether userID is on the admin allow-list.
func IsAdmin(userID string) bool {
	for _, id := range AdminIDs() {
		if id == userID {
			return true
		}
	}
	return false
}
