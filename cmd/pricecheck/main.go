package main

import (
	"context"
	"log"
	"os"
	"time"

	"tabsensei-be/internal/config"
	"tabsensei-be/internal/repository/implementation"
	"tabsensei-be/internal/repository/unitofwork"
	"tabsensei-be/internal/service"
	"tabsensei-be/pkg/database"
	pktNats "tabsensei-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// One-shot price sweep. Runs the same check the background watcher
// runs on its ticker, then exits. Useful from cron or by hand after
// bulk-importing price history.
func main() {
	color.Cyan("🔍 TabSensei Price Sweep\n")

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	cfg := config.Load()

	color.Yellow("\n[1] Connecting to database")
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Connected")

	color.Yellow("\n[2] Connecting to NATS (alerts go through the bus)")
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		color.Red("NATS unavailable: %v", err)
		color.Red("Sweep aborted: without the bus no alert would reach a device")
		os.Exit(1)
	}
	color.Green("Connected")

	uowFactory := unitofwork.NewRepositoryFactory(db)
	alertRepo := implementation.NewAlertRepository(db)
	watchlistService := service.NewWatchlistService(uowFactory, alertRepo, natsPub, cfg.Watch)

	color.Yellow("\n[3] Sweeping watched products")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fired, err := watchlistService.CheckPrices(ctx)
	if err != nil {
		color.Red("Sweep failed: %v", err)
		os.Exit(1)
	}

	if fired > 0 {
		color.Green("\n✅ Sweep complete: %d alert(s) fired", fired)
	} else {
		color.Green("\n✅ Sweep complete: no drops found")
	}
}
