package main

import (
	"log"

	"github.com/visheshc14/career-counselor-chat/internal/config"
	"github.com/visheshc14/career-counselor-chat/internal/model"
	"github.com/visheshc14/career-counselor-chat/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	log.Println("Running migrations...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.ChatSession{},
		&model.Message{},
	); err != nil {
		log.Panicf("Migration failed: %v", err)
	}
	log.Println("✅ Migrations complete")
}
