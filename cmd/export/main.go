package main

import (
	"context"
	"flag"
	"log"
	"time"

	"saasgrid-backend/shared/config"
	"saasgrid-backend/shared/database"
	"saasgrid-backend/shared/database/models"
	"saasgrid-backend/shared/utils/export"
	"saasgrid-backend/tenant-service/handlers"
)

func main() {
	tenantSlug := flag.String("tenant", "", "slug of the tenant to export")
	all := flag.Bool("all", false, "export every tenant")
	flag.Parse()

	if *tenantSlug == "" && !*all {
		log.Fatal("Provide --tenant <slug> or --all")
	}

	config.LoadConfig()

	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	db := database.GetDB()

	archiver, err := export.NewArchiver()
	if err != nil {
		log.Fatalf("Failed to initialize export archiver: %v", err)
	}

	var tenants []models.Tenant
	query := db.Where("deleted_at IS NULL")
	if !*all {
		query = query.Where("slug = ?", *tenantSlug)
	}
	if err := query.Find(&tenants).Error; err != nil {
		log.Fatalf("Failed to load tenants: %v", err)
	}

	if len(tenants) == 0 {
		log.Fatal("No matching tenants found")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	exported := 0
	for _, tenant := range tenants {
		snapshot, err := handlers.BuildTenantSnapshot(db, tenant)
		if err != nil {
			log.Printf("❌ Failed to build snapshot for %s: %v", tenant.Slug, err)
			continue
		}

		key, err := archiver.WriteSnapshot(ctx, snapshot)
		if err != nil {
			log.Printf("❌ Failed to write snapshot for %s: %v", tenant.Slug, err)
			continue
		}

		log.Printf("✅ Exported tenant %s -> %s", tenant.Slug, key)
		exported++
	}

	log.Printf("Export finished: %d/%d tenants exported", exported, len(tenants))
}
