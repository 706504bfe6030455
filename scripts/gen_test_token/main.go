package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/metastamp/creators"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	repo := creators.NewRepository(dbPool)
	if err := repo.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize creators table: %v", err)
	}

	testEmail := "test@metastamp.dev"

	creator, err := repo.FindOrCreateByProvider(ctx, "test", "test-creator-123", testEmail, "Test Creator", "")
	if err != nil {
		log.Fatalf("Failed to find or create test creator: %v", err)
	}

	fmt.Printf("✅ Using test creator (ID: %s)\n", creator.ID)

	token, err := auth.GenerateJWT(creator.ID, testEmail)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\n🔑 Test JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport METASTAMP_TOKEN=\"%s\"\n", token)
}
