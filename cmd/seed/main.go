package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

// Loads the tag and ingredient catalog fixtures into the database.
func main() {
	tagsPath := flag.String("tags", "", "path to a JSON file with tags")
	ingredientsPath := flag.String("ingredients", "", "path to a JSON file with ingredients")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *tagsPath != "" {
		var tags []models.Tag
		if err := readJSON(*tagsPath, &tags); err != nil {
			log.Fatalf("Failed to read tags: %v", err)
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
		if res.Error != nil {
			log.Fatalf("Failed to seed tags: %v", res.Error)
		}
		log.Printf("Seeded %d tags", res.RowsAffected)
	}

	if *ingredientsPath != "" {
		var ingredients []models.Ingredient
		if err := readJSON(*ingredientsPath, &ingredients); err != nil {
			log.Fatalf("Failed to read ingredients: %v", err)
		}
		res := db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&ingredients, 500)
		if res.Error != nil {
			log.Fatalf("Failed to seed ingredients: %v", res.Error)
		}
		log.Printf("Seeded %d ingredients", res.RowsAffected)
	}
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
