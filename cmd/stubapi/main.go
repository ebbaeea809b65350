package main

import (
	"log"

	"photojay_admin/internal/config"
	"photojay_admin/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := http.Run(cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
