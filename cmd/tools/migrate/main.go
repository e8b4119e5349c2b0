package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"novi.com/app/internal/app"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" || dsn == app.MemoryDSN {
		log.Fatal("DB_DSN must point at a MySQL database")
	}

	db, err := app.OpenDB(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := app.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	for _, m := range app.Models() {
		fmt.Printf("✓ %T\n", m)
	}
	fmt.Println("Schema is up to date.")
}
