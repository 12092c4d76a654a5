package main

import (
	"os"
	"os/signal"
	"syscall"

	"helperbot/bot"
	"helperbot/db"
	"helperbot/reminder"
	"helperbot/tgbot"
	"helperbot/webapi"

	"go.uber.org/zap"
)

// getLogger creates a logger in global namespace
func getLogger() (*zap.SugaredLogger, func() error) {
	logger, _ := zap.NewDevelopment(zap.Fields(zap.String("ns", tgbot.BotName)))

	log := logger.Sugar()
	return log, logger.Sync
}

// HelperBot entry point
func main() {
	logger, syncLogs := getLogger()
	defer syncLogs()

	cfgFile, ok := os.LookupEnv("CONFIG_FILE")
	if !ok {
		logger.Fatalf("Configuration file name isn't set")
	}

	cfg, err := bot.ReadConfig(cfgFile)
	if err != nil {
		logger.Fatalw("Couldn't read configuration", "file", cfgFile, "err", err)
	}

	var backend db.Backend
	if cfg.DBConnStr != "" {
		backend, err = db.NewPGBackend(cfg.DBConnStr)
		if err != nil {
			logger.Fatalw("failed connecting to database", "err", err)
		}
	} else {
		backend = &db.JSONBackend{Path: cfg.StorePath}
	}

	d := db.NewDatabase(backend, logger)
	d.Load()

	eps := webapi.DefaultEndpoints()
	eps.NewsAPIKey = cfg.NewsAPIKey
	api := webapi.NewClient(eps)

	b, err := tgbot.NewTBot(cfg, d, api, logger)
	if err != nil {
		logger.Fatalw("failed initializing bot", "err", err)
	}

	mgr := reminder.NewManager(d, b.SendReminder, logger)
	b.ReminderManager = mgr

	mgr.Restore()
	go mgr.Run()
	go b.Run()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Infow("shutting down", "signal", sig)
	mgr.Stop()

	if err := d.Save(); err != nil {
		logger.Errorw("failed flushing user data", "err", err)
	}
}
