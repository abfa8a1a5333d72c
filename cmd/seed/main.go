package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"giftfinder/internal/config"
	"giftfinder/internal/database"
	"giftfinder/internal/database/testdb"
	"giftfinder/internal/domain"
	"giftfinder/internal/domain/feedback"
	"giftfinder/internal/domain/tracking"
	"giftfinder/internal/logger"
)

type demoProduct struct {
	Name     string
	Price    float64
	Category string
	Merchant string
	Network  string
	Rate     float64
}

var demoProducts = []demoProduct{
	{Name: "Ceramic Pour-Over Set", Price: 39.90, Category: "kitchen", Merchant: "BrewHaus", Network: "awin", Rate: 0.06},
	{Name: "Hardcover Reading Journal", Price: 18.50, Category: "books", Merchant: "Paperline", Network: "impact", Rate: 0.08},
	{Name: "Indoor Herb Garden Kit", Price: 54.00, Category: "gardening", Merchant: "GreenNook", Network: "awin", Rate: 0.05},
	{Name: "Wireless Earbuds", Price: 89.99, Category: "gadgets", Merchant: "SoundCo", Network: "cj", Rate: 0.04},
	{Name: "Loose Leaf Tea Sampler", Price: 24.00, Category: "tea", Merchant: "LeafBox", Network: "impact", Rate: 0.10},
}

var referers = []string{
	"https://giftfinder.example/search",
	"https://giftfinder.example/lists/birthday",
	"https://newsletter.example/weekly",
	"",
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lg := logger.New(cfg.LogLevel, cfg.AppEnv)

	if err := run(context.Background(), cfg, lg); err != nil {
		lg.Fatal().Err(err).Msg("seed failed")
	}
	lg.Info().Msg("seed completed")
}

func run(ctx context.Context, cfg *config.Config, lg zerolog.Logger) error {
	database.LogTarget(lg, cfg.DatabaseURL)
	db, err := database.Connect(cfg.DatabaseURL, database.Options{})
	if err != nil {
		return err
	}
	defer database.Close(db)

	lg.Info().Msg("running migrations")
	if err := database.Migrate(db); err != nil {
		return err
	}

	lg.Info().Msg("cleaning old data")
	if err := testdb.Cleanup(ctx, db); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	lg.Info().Int("users", len(testdb.Users())).Msg("creating users and profiles")
	if err := testdb.SeedFixtures(ctx, db); err != nil {
		return fmt.Errorf("seed fixtures: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, dp := range demoProducts {
			product, link, err := createProduct(ctx, tx, dp, now)
			if err != nil {
				return err
			}
			clicks, conversions, err := createActivity(ctx, tx, link, now)
			if err != nil {
				return err
			}
			if err := createFeedback(ctx, tx, product.ID, now); err != nil {
				return err
			}
			lg.Info().
				Str("product", product.Name).
				Int("clicks", clicks).
				Int("conversions", conversions).
				Msg("seeded product")
		}
		return nil
	})
}

func createProduct(ctx context.Context, tx *gorm.DB, dp demoProduct, now time.Time) (*domain.Product, *domain.AffiliateLink, error) {
	product, err := testdb.Create(ctx, tx, &domain.Product{
		ID:        uuid.NewString(),
		Name:      dp.Name,
		Price:     dp.Price,
		Currency:  "USD",
		Category:  dp.Category,
		Merchant:  dp.Merchant,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create product %q: %w", dp.Name, err)
	}
	link, err := testdb.Create(ctx, tx, &domain.AffiliateLink{
		ID:             uuid.NewString(),
		ProductID:      product.ID,
		Network:        dp.Network,
		URL:            fmt.Sprintf("https://%s.example/p/%s", dp.Network, product.ID),
		CommissionRate: dp.Rate,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create link for %q: %w", dp.Name, err)
	}
	return product, link, nil
}

// createActivity spreads clicks over the last two weeks and converts
// roughly one in eight of them.
func createActivity(ctx context.Context, tx *gorm.DB, link *domain.AffiliateLink, now time.Time) (int, int, error) {
	n := 20 + mrand.Intn(40)
	clicks := make([]tracking.Click, 0, n)
	for i := 0; i < n; i++ {
		at := now.Add(-time.Duration(mrand.Intn(14*24)) * time.Hour)
		clicks = append(clicks, tracking.Click{
			ID:        ulid.MustNew(ulid.Timestamp(at), rand.Reader).String(),
			LinkID:    link.ID,
			ProductID: link.ProductID,
			IPAddress: fmt.Sprintf("10.0.%d.%d", mrand.Intn(4), 1+mrand.Intn(30)),
			UserAgent: "Mozilla/5.0 (seed)",
			Referer:   referers[mrand.Intn(len(referers))],
			Duplicate: mrand.Intn(10) == 0,
			CreatedAt: at,
		})
	}
	if _, err := testdb.CreateMany(ctx, tx, clicks); err != nil {
		return 0, 0, fmt.Errorf("create clicks: %w", err)
	}

	var conversions []tracking.Conversion
	for i, click := range clicks {
		if click.Duplicate || mrand.Intn(8) != 0 {
			continue
		}
		value := float64(2000+mrand.Intn(10000)) / 100
		conversions = append(conversions, tracking.Conversion{
			ID:         uuid.NewString(),
			ClickID:    click.ID,
			LinkID:     click.LinkID,
			ProductID:  click.ProductID,
			OrderID:    fmt.Sprintf("SEED-%s-%03d", link.ID[:8], i),
			OrderValue: value,
			Currency:   "USD",
			Commission: math.Round(value*link.CommissionRate*100) / 100,
			CreatedAt:  click.CreatedAt.Add(15 * time.Minute),
		})
	}
	if len(conversions) > 0 {
		if _, err := testdb.CreateMany(ctx, tx, conversions); err != nil {
			return 0, 0, fmt.Errorf("create conversions: %w", err)
		}
	}
	return len(clicks), len(conversions), nil
}

func createFeedback(ctx context.Context, tx *gorm.DB, productID string, now time.Time) error {
	rows := make([]feedback.Feedback, 0, 6)
	for i := 0; i < cap(rows); i++ {
		action := feedback.ActionLike
		if mrand.Intn(3) == 0 {
			action = feedback.ActionDislike
		}
		rows = append(rows, feedback.Feedback{
			ID:        uuid.NewString(),
			SearchID:  fmt.Sprintf("seed-search-%d", i),
			ProductID: productID,
			Action:    action,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	_, err := testdb.CreateMany(ctx, tx, rows)
	return err
}
