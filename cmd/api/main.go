package main

import (
	"log"

	"github.com/joho/godotenv"

	"failboard/adapters/api"
	"failboard/adapters/tabular"
	"failboard/app"
	"failboard/domain/view"
	"failboard/internal"
	"failboard/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	logger := internal.DefaultLogger
	source := tabular.Open(cfg.Data.File, cfg.Data.SampleSeed, cfg.Data.SampleRows, logger)
	service := app.NewDashboardService(source, view.DefaultRegistry(), logger)

	server := api.NewServer(api.Config{
		Port:    cfg.API.Port,
		GinMode: cfg.API.GinMode,
	}, service, logger)

	log.Printf("Starting failboard API on http://localhost:%s", cfg.API.Port)
	log.Fatal(server.Start())
}
