package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"marketplace/internal/catalog"
	"marketplace/internal/utils"
)

type demoListing struct {
	title       string
	price       int64
	category    string
	description string
	location    string
}

var demoListings = []demoListing{
	{"iPhone 13 Pro 256GB", 65000, "Electronics", "Battery at 91%, always in a case", "Moscow"},
	{"Corner sofa, almost new", 28000, "Furniture", "Grey fabric, pick up only", "Kazan"},
	{"Mountain bike 29\"", 18500, "Sports", "Hydraulic brakes, new tyres", "Saint Petersburg"},
	{"North Face winter jacket", 7200, "Clothing", "Size M, worn one season", "Novosibirsk"},
	{"Baby stroller 2-in-1", 12000, "Kids", "Carrycot and seat unit included", "Yekaterinburg"},
	{"Winter tyres R16", 16000, "Auto", "Set of four, studded", "Samara"},
	{"MacBook Air M1", 54000, "Electronics", "8/256, charger included", "Moscow"},
	{"Oak dining table", 15000, "Furniture", "Seats six", "Tver"},
}

func main() {
	sellers := flag.Int("sellers", 4, "number of demo sellers to create")
	reset := flag.Bool("reset", false, "delete existing marketplace data first")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to start transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	if *reset {
		if _, err := tx.Exec(`TRUNCATE notifications, verification_requests, products, users RESTART IDENTITY`); err != nil {
			log.Fatalf("Failed to reset data: %v", err)
		}
		log.Println("Existing data removed")
	}

	categories := catalog.NewCategories(catalog.DefaultCategories)

	sellerIDs := make([]int64, 0, *sellers)
	sellerVerified := make(map[int64]bool, *sellers)
	for i := 0; i < *sellers; i++ {
		name, err := utils.GenerateDisplayName()
		if err != nil {
			log.Fatalf("Failed to generate name: %v", err)
		}
		rating, err := utils.RandomRating()
		if err != nil {
			log.Fatalf("Failed to generate rating: %v", err)
		}
		verified := i%2 == 0
		level := "none"
		if verified {
			level = "verified"
		}

		var id int64
		err = tx.QueryRow(
			`INSERT INTO users (name, rating, verified, verification_level) VALUES ($1, $2, $3, $4) RETURNING id`,
			name, rating, verified, level,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to insert seller: %v", err)
		}
		sellerIDs = append(sellerIDs, id)
		sellerVerified[id] = verified
		log.Printf("Seller %d: %s (rating %.1f, verified %t)", id, name, rating, verified)
	}

	if len(sellerIDs) == 0 {
		log.Fatal("At least one seller is required")
	}

	for i, l := range demoListings {
		sellerID := sellerIDs[i%len(sellerIDs)]
		_, err := tx.Exec(
			`INSERT INTO products (title, price, category, description, location, image_emoji, seller_id, verified_seller)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.title, l.price, l.category, l.description, l.location,
			categories.Image(l.category), sellerID, sellerVerified[sellerID],
		)
		if err != nil {
			log.Fatalf("Failed to insert listing %q: %v", l.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	fmt.Printf("✅ Seeded %d sellers and %d listings\n", len(sellerIDs), len(demoListings))
}
