package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-library-rental/config"
)

type seedUser struct {
	name, email, phone string
}

type seedBook struct {
	externalID    int64
	title, author string
	price         string
}

var users = []seedUser{
	{"Ada Lovelace", "ada@example.com", "+441234567890"},
	{"Alan Turing", "alan@example.com", ""},
}

var books = []seedBook{
	{101, "Dune", "Frank Herbert", "15.99"},
	{102, "The Left Hand of Darkness", "Ursula K. Le Guin", "12.50"},
	{103, "Neuromancer", "William Gibson", "9.99"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, u := range users {
		var id int64
		err := db.QueryRow(`
			INSERT INTO users (name, email, phone)
			VALUES ($1, $2, NULLIF($3, ''))
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
			RETURNING id
		`, u.name, u.email, u.phone).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		fmt.Printf("seeded user: id=%d email=%s\n", id, u.email)
	}

	// existing books keep their stock counts
	for _, b := range books {
		price := decimal.RequireFromString(b.price)
		_, err := db.Exec(`
			INSERT INTO books (external_id, title, author_name, price, stock_quantity, available_quantity)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (external_id) DO UPDATE
			SET title = EXCLUDED.title, author_name = EXCLUDED.author_name, price = EXCLUDED.price, updated_at = now()
		`, b.externalID, b.title, b.author, price, cfg.BookDefaultStock)
		if err != nil {
			log.Fatalf("failed to seed book %d: %v", b.externalID, err)
		}
		fmt.Printf("seeded book: external_id=%d title=%q price=%s\n", b.externalID, b.title, price.StringFixed(2))
	}
}
