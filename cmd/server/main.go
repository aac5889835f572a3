package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/eventease/api/internal/config"
	"github.com/eventease/api/internal/draft"
	"github.com/eventease/api/internal/router"
	"github.com/eventease/api/internal/store"
	"github.com/eventease/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	st := store.New(pool)

	hub := ws.NewHub()
	go hub.Run()

	drafts := draft.NewMemoryStore(cfg.DraftTTL)

	// Sweep expired order drafts hourly.
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if n := drafts.Sweep(); n > 0 {
			log.Printf("Swept %d expired order drafts", n)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule draft sweeper: %v", err)
	}
	c.Start()
	defer c.Stop()

	r := router.New(cfg, st, pool, hub, drafts)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
