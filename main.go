package main

import (
	"log"

	"video-gen-bot/internal/bot"
	"video-gen-bot/internal/config"
	"video-gen-bot/internal/i18n"
	"video-gen-bot/internal/jobs"
	"video-gen-bot/internal/kie"
	"video-gen-bot/internal/storage"
	"video-gen-bot/internal/wizard"
)

func main() {
	cfg := config.LoadConfig()

	localizer := i18n.NewLocalizer(cfg.DefaultLang)

	db, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize database: %v", err)
	}
	defer db.Close()

	soraClient := kie.NewSoraClient(cfg.JobsCreateURL, cfg.JobsStatusURL, cfg.KieAPIKey, nil)
	veoClient := kie.NewVeoClient(cfg.VeoCreateURL, cfg.VeoStatusURL, cfg.KieAPIKey, nil)

	sessions := wizard.NewManager()
	jobManager := jobs.NewManager(db, nil, soraClient, veoClient, localizer)

	telegramBot, err := bot.New(cfg, localizer, db, sessions, jobManager)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize bot: %v", err)
	}
	jobManager.SetNotifier(telegramBot)

	log.Println("Bot initialized successfully with SQLite database. Starting to listen for updates...")

	telegramBot.Start()
}
