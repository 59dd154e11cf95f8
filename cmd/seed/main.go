package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jordanlanch/leaddesk/config"
	"github.com/jordanlanch/leaddesk/pkg/cache"
	"github.com/jordanlanch/leaddesk/pkg/database"
	"github.com/jordanlanch/leaddesk/pkg/leads"
	"github.com/jordanlanch/leaddesk/pkg/logger"
	"github.com/jordanlanch/leaddesk/pkg/seed"
)

func main() {
	reset := flag.Bool("reset", true, "delete existing leads before seeding")
	fake := flag.Int("fake", -1, "number of generated leads (defaults to SEED_FAKE_LEADS)")
	flag.Parse()

	cfg := config.Load()
	appLogger := logger.New(cfg.LogLevel)

	db, err := database.OpenFromConfig(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("❌ Failed to migrate database: %v", err)
	}

	var opts []leads.Option
	if cfg.RedisURL != "" {
		// Writes invalidate the list cache of a running API
		if redisClient, err := cache.NewClient(cfg.RedisURL); err != nil {
			log.Printf("⚠️  Redis unavailable, skipping cache invalidation: %v", err)
		} else {
			defer redisClient.Close()
			opts = append(opts, leads.WithCache(redisClient, time.Duration(cfg.LeadCacheTTLSeconds)*time.Second))
		}
	}

	leadService := leads.NewService(leads.NewStore(db.DB, db.Dialect()), appLogger, opts...)
	seeder := seed.NewSeeder(db, leadService, appLogger)

	if *reset {
		removed, err := seeder.Reset(ctx)
		if err != nil {
			log.Fatalf("❌ Failed to clear leads: %v", err)
		}
		log.Printf("🧹 Removed %d existing leads", removed)
	}

	fixtures := seed.Demo()
	count := cfg.SeedFakeLeads
	if *fake >= 0 {
		count = *fake
	}
	if count > 0 {
		fixtures = append(fixtures, seed.Generate(seed.DefaultGeneratorConfig(count))...)
	}

	res, err := seeder.Load(ctx, fixtures, time.Now())
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Seeded %d leads and %d messages", res.Leads, res.Messages)
}
