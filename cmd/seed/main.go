package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/models"
	"github.com/foody-next/internal/provider"
	"github.com/foody-next/internal/service"

	"github.com/shopspring/decimal"
)

type demoOffer struct {
	title       string
	price       string
	original    string
	qty         int
	ttl         time.Duration
	category    string
	description string
}

var demoOffers = []demoOffer{
	{title: "Pastry surprise box", price: "149.00", original: "450.00", qty: 5, ttl: 6 * time.Hour, category: "bakery", description: "Croissants and buns baked today"},
	{title: "Lunch set", price: "199.00", original: "390.00", qty: 3, ttl: 3 * time.Hour, category: "ready_meals", description: "Soup, salad and a drink"},
	{title: "Fruit bag", price: "99.00", original: "", qty: 10, ttl: 24 * time.Hour, category: "groceries"},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	db, err := models.InitDB(models.DBOptions{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Pool: models.DBPoolConfig{
			MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		},
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	defer func() { _ = models.CloseDB(db) }()

	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container := provider.NewContainer(cfg, db)
	defer container.Close()

	ctx := context.Background()
	login := envOrDefault("FOODY_DEMO_LOGIN", "79990000000")
	password := envOrDefault("FOODY_DEMO_PASSWORD", "demo123")

	session, err := container.MerchantAuthService.Register(ctx, service.RegisterMerchantInput{
		Name:     "Demo Bakery",
		Login:    login,
		Password: password,
		City:     "Moscow",
	})
	if errors.Is(err, service.ErrLoginExists) {
		stdLog.Printf("Demo merchant already exists: %s", login)
		session, err = container.MerchantAuthService.Login(ctx, login, password)
		if err != nil {
			stdLog.Fatalf("Failed to login demo merchant: %v", err)
		}
		existing, err := container.OfferService.List(ctx, session.RestaurantID, service.ListOffersInput{Limit: 1})
		if err == nil && len(existing.Items) > 0 {
			stdLog.Printf("Demo offers already seeded, skipping")
			return
		}
	} else if err != nil {
		stdLog.Fatalf("Failed to create demo merchant: %v", err)
	} else {
		stdLog.Printf("Created demo merchant: restaurant_id=%d api_key=%s", session.RestaurantID, session.APIKey)
	}

	now := time.Now().UTC()
	for _, item := range demoOffers {
		price := models.NewMoneyFromDecimal(decimal.RequireFromString(item.price))
		input := service.CreateOfferInput{
			Title:     item.title,
			Price:     &price,
			QtyTotal:  intPtr(item.qty),
			ExpiresAt: service.FormatOfferTime(now.Add(item.ttl)),
			Category:  stringPtr(item.category),
		}
		if item.original != "" {
			original := models.NewMoneyFromDecimal(decimal.RequireFromString(item.original))
			input.OriginalPrice = &original
		}
		if item.description != "" {
			input.Description = stringPtr(item.description)
		}
		id, err := container.OfferService.Create(ctx, session.RestaurantID, input)
		if err != nil {
			stdLog.Printf("Failed to create offer %q: %v", item.title, err)
			continue
		}
		stdLog.Printf("Created offer: %d %s", id, item.title)
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intPtr(v int) *int {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
