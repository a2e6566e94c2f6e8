package main

import (
	"log"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database"
)

func main() {
	log.Println("🌱 Starting database seeding...")

	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Seed resources, actions and defaults
	if err := database.SeedDatabase(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Create the platform tenant and its super admin
	if err := database.CreatePlatformTenantFromConfig(); err != nil {
		log.Fatalf("Failed to create platform tenant: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}
