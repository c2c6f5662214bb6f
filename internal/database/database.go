package database

import (
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds the storage connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PoolSize int
}

// Open connects to PostgreSQL and bounds the connection pool. Every
// request borrows one pooled connection for its duration; exhaustion
// queues callers instead of failing them.
func Open(cfg Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.PoolSize > 0 {
		sqlDB.SetMaxOpenConns(cfg.PoolSize)
		sqlDB.SetMaxIdleConns(cfg.PoolSize)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate provisions the schema. AutoMigrate only creates what is
// absent, so running it repeatedly is safe.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SeedProducts inserts the demo catalog, but only into an empty one.
func SeedProducts(repo repositories.ProductRepository) error {
	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Catalog already has %d products, skipping seed", count)
		return nil
	}

	products := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", PriceCents: 120000, ImageURL: "/static/img/laptop.jpg"},
		{Name: "Keyboard", Description: "Mechanical keyboard", PriceCents: 7500, ImageURL: "/static/img/keyboard.jpg"},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", PriceCents: 2500, ImageURL: "/static/img/mouse.jpg"},
		{Name: "Monitor", Description: "27 inch IPS display", PriceCents: 32000, ImageURL: "/static/img/monitor.jpg"},
		{Name: "Headset", Description: "Noise cancelling headset", PriceCents: 9900, ImageURL: "/static/img/headset.jpg"},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return err
		}
		log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
	}
	return nil
}
