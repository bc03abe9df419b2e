package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/grocery-storefront/internal/api"
	"github.com/example/grocery-storefront/internal/auth"
	"github.com/example/grocery-storefront/internal/cart"
	"github.com/example/grocery-storefront/internal/events"
	"github.com/example/grocery-storefront/internal/infrastructure/kafka"
	"github.com/example/grocery-storefront/internal/infrastructure/store"
	"github.com/example/grocery-storefront/internal/model"
	"github.com/example/grocery-storefront/internal/order"
	"github.com/google/uuid"
)

func main() {
	// Configuration from environment variables
	addr := getEnv("LISTEN_ADDR", ":8080")
	databaseURL := os.Getenv("DATABASE_URL")
	kafkaBrokersStr := os.Getenv("KAFKA_BROKERS")
	kafkaTopic := getEnv("KAFKA_TOPIC", "storefront-events")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("[API] JWT_SECRET environment variable is required")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("[API] JWT_SECRET must be at least 32 characters long")
	}

	log.Println("[API] ========================================")
	log.Println("[API] Grocery Storefront API")
	log.Println("[API] ========================================")

	// Storage: PostgreSQL when configured, otherwise an in-memory
	// catalog seeded with demo products.
	var st store.Store
	if databaseURL != "" {
		db, err := store.ConnectPostgres(databaseURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		pg, err := store.NewPostgresStore(db)
		if err != nil {
			log.Fatalf("[API] Failed to prepare schema: %v", err)
		}
		st = pg
		log.Println("[API] Storage: PostgreSQL")
	} else {
		mem := store.NewMemoryStore()
		seedProducts(mem)
		st = mem
		log.Println("[API] Storage: in-memory (set DATABASE_URL for PostgreSQL)")
	}

	// Events: optional. Without brokers the services run standalone.
	var publisher events.Publisher
	if kafkaBrokersStr != "" {
		brokers := strings.Split(kafkaBrokersStr, ",")
		producer := kafka.NewProducer(brokers, kafkaTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("[API] Events: Kafka %v topic %s", brokers, kafkaTopic)
	} else {
		log.Println("[API] Events: disabled (set KAFKA_BROKERS to enable)")
	}

	carts := cart.NewService(st, publisher)
	orders := order.NewService(st, carts, publisher)
	tokens := auth.NewTokens(
		jwtSecret,
		15*time.Minute, // Access token expiry
		7*24*time.Hour, // Refresh token expiry (7 days)
	)

	router := api.NewRouter(api.RouterConfig{
		Handlers:     api.NewHandlers(carts, orders, st),
		AuthHandlers: api.NewAuthHandlers(st, tokens),
		Tokens:       tokens,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// seedProducts loads a small demo catalog so the storefront is usable
// out of the box.
func seedProducts(st store.Store) {
	demo := []model.Product{
		{Name: "Whole Milk", Description: "Fresh whole milk", Price: 55, Unit: "1L", Stock: 40},
		{Name: "Brown Bread", Description: "Whole wheat loaf", Price: 45, Unit: "400g", Stock: 25},
		{Name: "Basmati Rice", Description: "Premium long-grain rice", Price: 180, OriginalPrice: 210, Unit: "1kg", Stock: 60},
		{Name: "Bananas", Description: "Ripe yellow bananas", Price: 40, Unit: "dozen", Stock: 30},
		{Name: "Eggs", Description: "Farm fresh eggs", Price: 90, Unit: "dozen", Stock: 50},
		{Name: "Tomatoes", Description: "Vine-ripened tomatoes", Price: 35, Unit: "500g", Stock: 45},
	}

	ctx := context.Background()
	for _, p := range demo {
		p.ID = uuid.New().String()
		p.Active = true
		p.CreatedAt = time.Now()
		if err := st.SaveProduct(ctx, &p); err != nil {
			log.Printf("[API] Failed to seed product %s: %v", p.Name, err)
		}
	}
	log.Printf("[API] Seeded %d demo products", len(demo))
}
