package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"talentdesk/internal/config"
	"talentdesk/internal/database"
	"talentdesk/internal/services"
	"talentdesk/internal/util"
)

func main() {
	username := flag.String("username", envOr("ADMIN_USERNAME", "admin"), "administrator username")
	email := flag.String("email", envOr("ADMIN_EMAIL", "admin@talentdesk.local"), "administrator email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "administrator password (or ADMIN_PASSWORD)")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal("A password of at least 8 characters is required (-password or ADMIN_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	authSvc := services.NewAuthService(database.GetDB(), util.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL()), 0)
	defer authSvc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := authSvc.EnsureAdmin(ctx, *username, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	if !created {
		fmt.Printf("User %q already exists!\n", *username)
		return
	}

	fmt.Println("Admin user created successfully!")
	fmt.Printf("Username: %s\n", *username)
	fmt.Println("Please change the password after first login!")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
