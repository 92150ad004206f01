// Command main fills the database with demo users, posts, votes and comments.
package main

import (
	"context"
	"flag"
	"os"

	"lotusnews/internal/cache"
	"lotusnews/internal/config"
	"lotusnews/internal/database"
	"lotusnews/internal/middleware"
	"lotusnews/internal/repository"
	"lotusnews/internal/seed"
)

func main() {
	planPath := flag.String("plan", "", "YAML seed plan (defaults are used when empty)")
	users := flag.Int("users", 0, "Override the number of users in the plan")
	flag.Parse()

	plan, err := seed.LoadPlan(*planPath)
	if err != nil {
		middleware.Logger.Error("failed to load seed plan", "error", err)
		os.Exit(1)
	}
	if *users > 0 {
		plan.Users = *users
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	cache.InitRedis(cfg.RedisURL)

	sum, err := seed.NewSeeder(repository.NewStore(db), plan, cfg.JWTSecret).Run(context.Background())
	if err != nil {
		middleware.Logger.Error("seeding failed", "error", err, "partial", sum)
		os.Exit(1)
	}
	middleware.Logger.Info("seeding finished", "users", sum.Users, "posts", sum.Posts,
		"votes", sum.Votes, "comments", sum.Comments, "password", plan.Password)
}
