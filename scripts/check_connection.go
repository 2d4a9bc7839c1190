package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/railbook/railbook_core/internal/cache"
	"github.com/railbook/railbook_core/internal/db"
)

// Standalone smoke check for local setups: verifies Postgres and Redis
// connectivity and lists the booking tables.
func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Println("🔗 Testing database connection...")
	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	var pgVersion string
	if err := pool.QueryRow(ctx, "SELECT version()").Scan(&pgVersion); err != nil {
		log.Printf("⚠️  Could not get PostgreSQL version: %v", err)
	} else {
		fmt.Printf("✅ PostgreSQL: %s\n", pgVersion)
	}

	fmt.Println("\n📋 Checking booking tables...")
	rows, err := pool.Query(ctx, `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
		ORDER BY tablename
	`)
	if err != nil {
		log.Printf("⚠️  Could not list tables: %v", err)
	} else {
		defer rows.Close()
		tableCount := 0
		for rows.Next() {
			var tablename string
			if err := rows.Scan(&tablename); err != nil {
				continue
			}
			fmt.Printf("   - %s\n", tablename)
			tableCount++
		}
		if tableCount == 0 {
			fmt.Println("   (no tables found - run the seeder first)")
		}
	}

	fmt.Println("\n🔗 Testing Redis connection...")
	if _, err := cache.GetClient(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer cache.Close()
	if err := cache.HealthCheck(ctx); err != nil {
		log.Fatalf("❌ Redis health check failed: %v", err)
	}
	fmt.Println("✅ Redis connection successful!")

	fmt.Println("\n✅ Connection test completed successfully!")
}
