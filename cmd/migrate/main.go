package main

import (
	"log"
	"os"

	"tabsensei-be/internal/model"
	"tabsensei-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate for 8 Tables...")

	models := []interface{}{
		&model.Device{},
		&model.DevicePreference{},
		&model.WatchedProduct{},
		&model.PricePoint{},
		&model.AlertType{},
		&model.Alert{},
		&model.TabSession{},
		&model.SessionEmbedding{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views & Functions
	log.Println("Step 3: Creating Views and Functions...")

	postMigrationSQL := []string{
		// Function: set_current_timestamp_updated_at
		`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
		DECLARE _new_value TIMESTAMP WITH TIME ZONE;
		BEGIN
		  _new_value := now();
		  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
		  RETURN NEW;
		END; $$;`,

		// View: semantic_searchable_sessions
		`CREATE OR REPLACE VIEW semantic_searchable_sessions AS
		 SELECT s.id AS session_id, s.name, se.document, se.embedding_value AS embedding, s.device_id
		 FROM tab_sessions s JOIN session_embeddings se ON s.id = se.session_id
		 WHERE s.deleted_at IS NULL AND se.deleted_at IS NULL;`,

		// View: watched_product_latest_price
		`CREATE OR REPLACE VIEW watched_product_latest_price AS
		 SELECT wp.id AS product_id, wp.device_id, wp.title, wp.url, wp.currency, wp.target_price, wp.threshold_pct, lp.amount AS latest_price, lp.observed_at
		 FROM watched_products wp
		 LEFT JOIN LATERAL (
		   SELECT amount, observed_at FROM price_points
		   WHERE price_points.product_id = wp.id
		   ORDER BY observed_at DESC LIMIT 1
		 ) lp ON TRUE
		 WHERE wp.deleted_at IS NULL;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
