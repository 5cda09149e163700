package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/billed-app/bill-service/internal/auth"
	"github.com/billed-app/bill-service/internal/storeserver"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store database with sample data",
	Long:  `Seed the store database with sample bills for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initStoreDB(cfg.StoreServer)
		if err != nil {
			log.Fatalf("failed to init store db: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM bills").Error; err != nil {
				log.Fatalf("failed to clear bills: %v", err)
			}
			fmt.Println("Cleared existing bills")
		}

		email := "employee@billed.test"
		bills := []storeserver.BillRecord{
			{
				ID:         "47qAXb6fIm2zOKkLzMro",
				Email:      email,
				Type:       "Hôtel et logement",
				Name:       "encore",
				Amount:     400,
				Date:       "2004-04-04",
				Vat:        "80",
				Pct:        20,
				Commentary: "séminaire billed",
				FileName:   "preview-facture-free-201801-pdf-1.jpg",
				Status:     "pending",
			},
			{
				ID:     "BeKy5Mo4jkmdfPGYpTxZ",
				Email:  email,
				Type:   "Transports",
				Name:   "test1",
				Amount: 100,
				Date:   "2001-01-01",
				Vat:    "",
				Pct:    20,
				Status: "refused",
			},
			{
				ID:     "UIUZtnPQvnbFnB0ozvJh",
				Email:  email,
				Type:   "Services en ligne",
				Name:   "test3",
				Amount: 300,
				Date:   "2003-03-03",
				Vat:    "60",
				Pct:    20,
				Status: "accepted",
			},
			{
				ID:     "qcCK3SzECmaZAGRrHjaC",
				Email:  email,
				Type:   "Restaurants et bars",
				Name:   "test2",
				Amount: 200,
				Date:   "2002-02-02",
				Vat:    "40",
				Pct:    20,
				Status: "refused",
			},
		}

		for _, b := range bills {
			var exists int64
			db.Model(&storeserver.BillRecord{}).Where("id = ?", b.ID).Count(&exists)
			if exists > 0 {
				fmt.Println("bill already exists, skipping:", b.ID)
				continue
			}
			if err := db.Create(&b).Error; err != nil {
				log.Fatalf("failed to insert bill %s: %v", b.ID, err)
			}
			fmt.Println("Seeded bill:", b.ID, b.Name)
		}

		// Print a ready-to-paste employee entry for the security config.
		hash, err := auth.HashPassword("password", cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash demo password: %v", err)
		}
		fmt.Printf("Demo employee config entry (password %q):\n  %s:%s\n", "password", email, hash)
	},
}
