package main

import (
	"log"
	"net/http"

	"lectureflow/internal/api"
	"lectureflow/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	defer h.Close()
	log.Printf("lectureflow api listening on %s llm_providers=%q embed_providers=%q transcriber=%q", cfg.APIAddr, cfg.LLMProviders, cfg.EmbedProviders, cfg.Transcriber)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
