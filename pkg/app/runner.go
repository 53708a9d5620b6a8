package app

import (
	"fmt"
	"os"

	"github.com/small-frappuccino/menucore/pkg/discord"
	"github.com/small-frappuccino/menucore/pkg/files"
	"github.com/small-frappuccino/menucore/pkg/log"
	"github.com/small-frappuccino/menucore/pkg/storage"
	"github.com/small-frappuccino/menucore/pkg/util"
)

// Run bootstraps the bot and blocks until shutdown. appName affects
// config/log/db paths; tokenEnv names the environment variable holding
// the bot token (with the $HOME/.local/bin/.env fallback).
func Run(appName, tokenEnv string) error {
	util.SetAppName(appName)

	token, loadErr := util.LoadEnvWithLocalBinFallback(tokenEnv)

	// Config manager first: it may redirect the log directory.
	configManager := files.NewConfigManager()
	if err := configManager.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings file: %v\n", err)
	}
	cfg := configManager.Config()

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = util.LogDir()
	}
	if err := log.Setup(logDir); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer log.Close()

	if loadErr != nil {
		log.Warnf(log.Application, "%v", loadErr)
	}
	if token == "" {
		return fmt.Errorf("%s not set in environment or .env file", tokenEnv)
	}

	log.Infof(log.Application, "Starting %s %s...", appName, Version)

	dbPath := cfg.DatabasePath
	if v := os.Getenv("MENUCORE_DB_PATH"); v != "" {
		dbPath = v
	}
	store := storage.NewStore(dbPath)
	if err := store.Init(); err != nil {
		return fmt.Errorf("initialize SQLite store: %w", err)
	}
	defer store.Close()

	session, err := discord.NewSession(token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	defer session.Close()

	registry, err := buildMenus(store, cfg)
	if err != nil {
		return fmt.Errorf("build menus: %w", err)
	}

	router := discord.NewInteractionRouter(session, registry, store)
	router.RootMenuID = rootMenuID
	if cfg.Trigger != "" {
		router.Trigger = cfg.Trigger
	}
	router.Attach()

	log.Infof(log.Application, "%s is running. Send %q in a channel to open the menu.", appName, router.Trigger)
	util.WaitForInterrupt()

	log.Info(log.Application, "Shutdown complete")
	return nil
}
