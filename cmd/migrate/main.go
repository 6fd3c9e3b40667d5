package main

import (
	"log"

	"notesync/internal/bootstrap"
	"notesync/internal/config"
	"notesync/internal/model"
	"notesync/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	model.SetNoteTableName(cfg.Notes.Table)

	// 2. Connect to Database using existing GORM helpers
	db, err := bootstrap.NewGormDB(cfg)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Printf("Step 1: Running AutoMigrate for %s...", cfg.Notes.Table)
	if err := db.AutoMigrate(&model.Note{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 3. Change notifications for the LISTEN/NOTIFY transport
	log.Printf("Step 2: Installing change trigger on channel %s...", cfg.Notes.Channel)
	if err := database.InstallChangeTrigger(db, cfg.Notes.Table, cfg.Notes.Channel); err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Println("Success: Database migration completed.")
}
