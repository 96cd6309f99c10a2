package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/vietlabs/base-backend/internal/bootstrap"
	"github.com/vietlabs/base-backend/internal/config"
	"github.com/vietlabs/base-backend/internal/server"
	"github.com/vietlabs/base-backend/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unreachable, continuing without it: %v", err)
			redisClient = nil
		}
	}

	srv, err := server.NewServer(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}
	defer srv.Stop()

	ctx := context.Background()
	if err := srv.RoleService.Seed(ctx); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := srv.NotificationService.SeedTopics(ctx); err != nil {
		log.Fatalf("failed to seed topics: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
