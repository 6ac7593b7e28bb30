// seed inserts an admin account, a customer account, and a small catalog
// into the local dev database. Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/rollabike/storefront/internal/infrastructure/postgres"
)

const (
	adminEmail    = "admin@seed.local"
	customerEmail = "customer@seed.local"
)

type productSpec struct {
	name        string
	description string
	priceCents  int64
	minOrderQty int
	available   int
}

var catalog = []productSpec{
	{"Trail Helmet", "MIPS trail helmet, matte grey", 8900, 1, 40},
	{"Gravel Tire 40c", "Tubeless-ready gravel tire", 5400, 2, 120},
	{"Frame Bag", "3L waterproof frame bag", 4200, 1, 25},
	{"Chain Lube", "Wet-condition chain lube, 120ml", 1100, 1, 200},
	{"Carbon Seatpost", "27.2mm carbon seatpost", 13900, 1, 8},

	// Out of stock — order attempts should be rejected
	{"Dynamo Hub", "Front dynamo hub, 32h", 21500, 1, 0},
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

	// Seed accounts. The admin role lives inside the profile document and is
	// preserved by profile upserts, so re-running is safe.
	_, err = pool.Exec(ctx, `
		INSERT INTO users (email, profile)
		VALUES ($1, '{"name":"Seed Admin","role":"admin"}'),
		       ($2, '{"name":"Seed Customer"}')
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()`,
		adminEmail, customerEmail,
	)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}

	// Insert catalog entries, skip any that already exist (idempotent re-runs)
	var inserted, skipped int
	var productIDs []string

	for _, spec := range catalog {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO products (name, description, price_cents, min_order_qty, available)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
			RETURNING id`,
			spec.name, spec.description, spec.priceCents, spec.minOrderQty, spec.available,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("insert product %q: %v", spec.name, err)
		}
		productIDs = append(productIDs, id)
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:            %s\n", adminEmail)
	fmt.Printf("  Customer:         %s\n", customerEmail)
	fmt.Printf("  Products created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()

	if len(productIDs) > 0 {
		fmt.Println("  Sample product IDs:")
		limit := 3
		if len(productIDs) < limit {
			limit = len(productIDs)
		}
		for _, id := range productIDs[:limit] {
			fmt.Printf("    %s\n", id)
		}
		fmt.Println()
	}

	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in (a profile upsert returns a fresh token):")
	fmt.Println()
	fmt.Printf("    curl -s -X PUT http://localhost:8080/users/%s \\\n", customerEmail)
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"name\":\"Seed Customer\"}'\n")
	fmt.Println("    # → {\"result\":{...},\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — browse and order:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/products")
	fmt.Println("    curl -s -X POST http://localhost:8080/orders \\")
	fmt.Println("      -H \"Authorization: Bearer $JWT\" -H 'Content-Type: application/json' \\")
	fmt.Printf("      -d '{\"product_id\":\"PRODUCT_ID\",\"email\":\"%s\",\"quantity\":1}'\n", customerEmail)
	fmt.Println()
	fmt.Println("  Step 3 — admin endpoints need the admin account's token:")
	fmt.Println()
	fmt.Printf("    curl -s -X PUT http://localhost:8080/users/%s -d '{}' \\\n", adminEmail)
	fmt.Println("      -H 'Content-Type: application/json'")
	fmt.Println("    export ADMIN_JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/admin/orders -H \"Authorization: Bearer $ADMIN_JWT\"")
}
