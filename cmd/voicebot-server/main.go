package main

import (
	"fmt"
	"log"
	"net/http"

	"interview-voicebot/internal/config"
	"interview-voicebot/internal/gateway"
	"interview-voicebot/internal/persona"
	"interview-voicebot/internal/server"
)

func main() {
	cfg := config.Load()

	fact, err := persona.Load(cfg.FactsFile)
	if err != nil {
		log.Fatalf("failed to load persona facts: %v", err)
	}

	gw := gateway.NewNIMClient(cfg.NvidiaAPIKey, cfg.GatewayURL, cfg.Model, cfg.STTModel)
	s := server.NewServer(cfg, gw, fact)

	fmt.Printf("voicebot relay listening on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, s.Router()))
}
