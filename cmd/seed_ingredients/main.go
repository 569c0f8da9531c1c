package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"os"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/log"
	"github.com/platefeed/backend/internal/models"
)

// Loads the ingredient catalogue from a CSV of "name,measurement_unit"
// rows. Rows whose (name, unit) pair already exists are skipped, so the
// seeder can be rerun against a populated database.
func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Error(ctx, "failed to open csv", "path", *path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	var created, skipped int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Error(ctx, "failed to read csv record", "error", err)
			os.Exit(1)
		}

		name, unit := record[0], record[1]
		if name == "" || unit == "" {
			skipped++
			continue
		}

		var count int64
		if err := db.WithContext(ctx).Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", name, unit).
			Count(&count).Error; err != nil {
			log.Error(ctx, "failed to check for existing ingredient", "name", name, "error", err)
			os.Exit(1)
		}
		if count > 0 {
			skipped++
			continue
		}

		ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
		if err := db.WithContext(ctx).Create(&ingredient).Error; err != nil {
			log.Error(ctx, "failed to create ingredient", "name", name, "error", err)
			os.Exit(1)
		}
		created++
	}

	log.Info(ctx, "ingredient seed complete", "created", created, "skipped", skipped)
}
