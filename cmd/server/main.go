package main

import (
	"context"
	"net/http"
	"os"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/api"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/config"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/database"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/handler"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/leaderboard"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/logger"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/middleware"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/retention"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.InitSchema(context.Background(), db); err != nil {
		logger.Error("Schema init failed: %v", err)
		os.Exit(1)
	}

	// Stores
	counters := store.NewCounterStore(db)
	timeframes := store.NewTimeframeStore(db)
	links := store.NewLinkStore(db)
	bots := store.NewBotStore(db)

	// Engine
	board := leaderboard.NewAggregator(counters, timeframes, links, bots)
	cleaner := retention.NewCleaner(db, counters, timeframes)
	migrator := retention.NewMigrator(db, counters)

	h := handler.New(counters, timeframes, board, cleaner, migrator)

	// Initialize routes
	router := api.SetupRouter(h, cfg.AdminAPIKey)

	// Wrap router with CORS middleware
	handlerChain := middleware.CORSMiddleware(router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handlerChain); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
