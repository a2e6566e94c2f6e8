package main

import (
	"flag"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"saasgrid-backend/shared/config"
)

func main() {
	confirm := flag.Bool("yes", false, "confirm dropping all tables")
	flag.Parse()

	if !*confirm {
		log.Fatal("Refusing to drop tables without --yes")
	}

	log.Println("🗑️ Starting database reset...")

	config.LoadConfig()
	cfg := config.GetConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=" + cfg.DBSSLMode +
		" TimeZone=UTC"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	// Drop order follows foreign key dependencies
	tables := []string{
		"user_sessions",
		"login_attempts",
		"blacklisted_tokens",
		"permission_actions",
		"permissions",
		"users",
		"roles",
		"departments",
		"organizations",
		"actions",
		"resources",
		"notifications",
		"audit_logs",
		"domain_events",
		"tenants",
	}

	log.Println("🗑️ Dropping all tables...")

	for _, table := range tables {
		log.Printf("   Dropping table: %s", table)
		db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE;")
	}

	log.Println("✅ Database reset completed - all tables dropped!")
	log.Println("💡 Run the seed command to recreate tables and seed data")
}
