package main

import (
	"log"
	"net/http"

	"personabot-backend/internal/config"
	"personabot-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.New(cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	log.Printf("personabot server listening on %s (backend=%s model=%s)", addr, cfg.Backend, cfg.Model)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
