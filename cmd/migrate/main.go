// Command migrate runs the schema migrations and exits. Production deploys
// run this explicitly; non-production servers migrate on startup.
package main

import (
	"log"

	"crewdesk/internal/config"
	"crewdesk/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
