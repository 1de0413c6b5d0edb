package main

import (
	"log"

	"github.com/joho/godotenv"

	"failboard/adapters/tabular"
	"failboard/app"
	"failboard/domain/view"
	"failboard/internal"
	"failboard/internal/config"
	"failboard/ui"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	logger := internal.DefaultLogger
	source := tabular.Open(cfg.Data.File, cfg.Data.SampleSeed, cfg.Data.SampleRows, logger)
	service := app.NewDashboardService(source, view.DefaultRegistry(), logger)

	dashboard, err := ui.NewApp(ui.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.API.AllowedOrigins,
	}, service, logger)
	if err != nil {
		log.Fatal("failed to create dashboard app: ", err)
	}

	log.Printf("Starting failboard dashboard on http://localhost:%s", cfg.Server.Port)
	log.Fatal(dashboard.Start())
}
