// cmd/migrate/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"spellbee/internal/config"
	"spellbee/internal/repository"
)

// users / progress_records / session_records を作成・更新するだけのコマンド
func main() {
	configDir := flag.String("config", "configs", "config directory")
	dbURL := flag.String("url", "", "database url (overrides config)")
	flag.Parse()

	if err := config.LoadConfig(*configDir); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	dbCfg := config.Cfg.Database
	if *dbURL != "" {
		dbCfg.URL = *dbURL
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := repository.NewDB(dbCfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect database using GORM: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()
	fmt.Println("Successfully connected to database using GORM!")

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	for _, table := range []string{"users", "progress_records", "session_records"} {
		fmt.Printf("- %s: exists=%t\n", table, db.Migrator().HasTable(table))
	}
	fmt.Println("\n--- Migration finished ---")
}
