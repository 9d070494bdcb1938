package main

import (
	"log"

	"ai-chatrelay-be/internal/config"
	"ai-chatrelay-be/internal/model"
	"ai-chatrelay-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	log.Println("Running migrations...")
	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.ChatSession{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")
}
