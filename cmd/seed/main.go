// Command seed populates the database with demo applicants and contractor
// requests for local development.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"crewdesk/internal/catalog"
	"crewdesk/internal/config"
	"crewdesk/internal/database"
	"crewdesk/internal/models"
)

func main() {
	count := flag.Int("count", 25, "number of applicants to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	companies := catalog.Default().Companies()

	created := 0
	for i := 0; i < *count; i++ {
		applicant := &models.Applicant{
			Email:          strings.ToLower(gofakeit.Email()),
			Phone:          gofakeit.Phone(),
			RedditUsername: gofakeit.Username(),
			Verified:       true,
		}
		if gofakeit.Bool() {
			applicant.InstagramHandle = gofakeit.Username()
		}
		if gofakeit.Bool() {
			applicant.TwitterHandle = gofakeit.Username()
		}

		if err := db.Create(applicant).Error; err != nil {
			// Collisions on the generated identity pair are harmless; skip.
			continue
		}
		created++

		// Roughly half the applicants have already requested a company.
		if gofakeit.Bool() && len(companies) > 0 {
			company := companies[gofakeit.Number(0, len(companies)-1)]
			request := &models.ContractorRequest{
				ApplicantID:   applicant.ID,
				CompanySlug:   company.Slug,
				CompanyName:   company.Name,
				Status:        models.ContractorRequestStatusPending,
				JoinedChannel: gofakeit.Bool(),
			}
			if err := db.Create(request).Error; err != nil {
				log.Printf("skipping request for %s: %v", applicant.Email, err)
			}
		}
	}

	fmt.Printf("Seeded %d applicants\n", created)
}
