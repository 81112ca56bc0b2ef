package main

import (
	"context"
	"log"
	"strings"
	"time"

	"lectureflow/internal/activities"
	"lectureflow/internal/config"
	"lectureflow/internal/storage"
	"lectureflow/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)

	var db *storage.DB
	if strings.TrimSpace(cfg.PostgresURL) != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db, err = storage.NewDB(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := storage.EnsureSchema(ctx, db, cfg.EmbedDim); err != nil {
			log.Fatal(err)
		}
	}

	a, err := activities.New(cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	activities.Register(w, a)

	log.Printf("lectureflow worker listening on %s queue=%s transcriber=%q embed_providers=%q", cfg.TemporalAddress, cfg.TemporalTaskQueue, cfg.Transcriber, cfg.EmbedProviders)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(err)
	}
}
