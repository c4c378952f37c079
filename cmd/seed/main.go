package main

import (
	"log"
	"os"

	"tabsensei-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Alert Registry...")
	SeedAlertTypes(db)

	// `go run ./cmd/seed demo` also loads a demo watchlist.
	if len(os.Args) > 1 && os.Args[1] == "demo" {
		log.Println("Seeding Demo Data...")
		SeedDemoData(db)
	}
}
