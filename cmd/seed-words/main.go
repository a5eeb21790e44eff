package main

import (
	"encoding/json"
	"log"

	"word-imposter/internal/config"
	"word-imposter/internal/db"
	"word-imposter/internal/game"

	"gorm.io/gorm/clause"
)

// Seeds the built-in word categories into Postgres. Safe to re-run: existing
// categories are overwritten with the current lists.
func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	seeded := 0
	for _, category := range game.DefaultCategories() {
		words, err := json.Marshal(category.Words)
		if err != nil {
			log.Fatalf("failed to encode words for %s: %v", category.Name, err)
		}
		record := db.WordCategory{Category: category.Name, Words: words}
		err = conn.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"words"}),
		}).Create(&record).Error
		if err != nil {
			log.Fatalf("failed to upsert category %s: %v", category.Name, err)
		}
		seeded++
	}

	log.Printf("seeded %d word categories", seeded)
}
