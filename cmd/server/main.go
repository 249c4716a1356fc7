package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/handler"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/mailer"
	"github.com/MKhiriev/go-vault-guard/internal/server"
	"github.com/MKhiriev/go-vault-guard/internal/service"
	"github.com/MKhiriev/go-vault-guard/internal/store"
	"github.com/MKhiriev/go-vault-guard/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("vault-guard-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if buildVersion != "N/A" {
		cfg.App.Version = buildVersion
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storages")
		}
	}()

	sender := mailer.NewPinSender(cfg.Mail, log)

	services, err := service.NewServices(storages, sender, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workers.NewWorkers(storages, cfg.Workers, log).Run(ctx)

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
