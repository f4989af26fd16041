package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm/clause"

	"goaltrack/database"
	"goaltrack/models"
	"goaltrack/services"
)

// catalogEntry mirrors the achievements table for the JSON override file.
type catalogEntry struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	TargetValue int    `json:"target_value"`
	Tier        string `json:"tier"`
	Points      int    `json:"points"`
	Rarity      string `json:"rarity"`
}

// Applies operator edits to the achievement catalog from a JSON file.
// Presentation and reward fields are overwritten per key; unlock progress
// rows are never touched.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <catalog.json>\n", os.Args[0])
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal("Failed to read catalog file:", err)
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Fatal("Failed to parse catalog JSON:", err)
	}

	fmt.Printf("Found %d catalog entries\n\n", len(entries))

	var rows []models.Achievement
	for i, e := range entries {
		if e.Key == "" {
			log.Fatalf("entry %d: key is required", i)
		}
		if e.TargetValue <= 0 {
			log.Fatalf("entry %d (%s): target_value must be positive", i, e.Key)
		}
		if _, ok := services.ParseTier(e.Tier); !ok {
			log.Fatalf("entry %d (%s): unknown tier %q", i, e.Key, e.Tier)
		}
		rows = append(rows, models.Achievement{
			Key:         e.Key,
			Title:       e.Title,
			Description: e.Description,
			Icon:        e.Icon,
			Category:    e.Category,
			TargetValue: e.TargetValue,
			Tier:        e.Tier,
			Points:      e.Points,
			Rarity:      e.Rarity,
		})
	}

	database.InitDB()
	defer database.CloseDB()
	db := database.GetDB()

	batchSize := 100
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := rows[i:end]
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "icon", "category",
				"target_value", "tier", "points", "rarity",
			}),
		}).Create(&batch).Error
		if err != nil {
			log.Fatalf("Error upserting batch %d-%d: %v", i, end, err)
		}
		fmt.Printf("Upserted entries %d-%d\n", i+1, end)
	}

	var count int64
	db.Model(&models.Achievement{}).Count(&count)
	fmt.Printf("\n✓ Import completed. Total achievements in database: %d\n", count)
}
