// seed inserts a verified demo user and a month of sample transactions
// into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/temirkhanov/fintrack/internal/infrastructure/postgres"
	"github.com/temirkhanov/fintrack/internal/security"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "correct horse battery staple"
)

type txSpec struct {
	amount   int64 // minor units, negative = spend
	currency string
	category string
	note     string
	daysAgo  int
}

var txs = []txSpec{
	{-450, "USD", "coffee", "flat white", 1},
	{-1299, "USD", "groceries", "weekly shop", 2},
	{-5600, "USD", "dining", "birthday dinner", 3},
	{250000, "USD", "salary", "july payout", 5},
	{-8900, "USD", "utilities", "electricity", 7},
	{-1500, "USD", "transport", "metro card top-up", 8},
	{-3200, "USD", "entertainment", "cinema", 10},
	{-450, "USD", "coffee", "", 12},
	{-7800, "USD", "groceries", "", 14},
	{-12000, "USD", "rent", "parking spot", 15},
	{1500, "USD", "refund", "returned headphones", 18},
	{-2100, "USD", "dining", "", 20},
	{-640, "USD", "coffee", "two cortados", 22},
	{-15500, "USD", "travel", "train tickets", 25},
	{-980, "USD", "subscriptions", "music", 28},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := security.NewHasher().Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	// Upsert the demo user, already email-verified so login works right away.
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, is_email_verified)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (email) DO UPDATE
			SET password_hash = EXCLUDED.password_hash,
			    is_email_verified = TRUE,
			    updated_at = NOW()
		RETURNING id`,
		seedEmail, hash,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	// Replace the user's transactions so re-runs stay deterministic.
	if _, err := pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID); err != nil {
		log.Fatalf("clear transactions: %v", err)
	}

	now := time.Now()
	for _, spec := range txs {
		var note *string
		if spec.note != "" {
			note = &spec.note
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO transactions (user_id, amount, currency, category, note, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			userID, spec.amount, spec.currency, spec.category, note,
			now.AddDate(0, 0, -spec.daysAgo),
		)
		if err != nil {
			log.Fatalf("insert transaction: %v", err)
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:         %s\n", seedEmail)
	fmt.Printf("  Password:     %s\n", seedPassword)
	fmt.Printf("  User ID:      %s\n", userID)
	fmt.Printf("  Transactions: %d\n", len(txs))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in (cookies land in cookies.txt):")
	fmt.Println()
	fmt.Printf("    curl -s -c cookies.txt -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\",\"remember_me\":true}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2 — list transactions:")
	fmt.Println()
	fmt.Println("    curl -s -b cookies.txt http://localhost:8080/transactions")
	fmt.Println()
	fmt.Println("  Step 3 — when the access token expires (~15 min), rotate the session:")
	fmt.Println()
	fmt.Println("    curl -s -b cookies.txt -c cookies.txt -X POST http://localhost:8080/auth/refresh")
}
