package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"word-imposter/internal/config"
	"word-imposter/internal/db"
	"word-imposter/internal/game"
	"word-imposter/internal/server"
	"word-imposter/internal/store"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	addr := cfg.Addr
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store setup failed: %v", err)
	}

	srv := server.New(st, cfg)
	log.Printf("word-imposter server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if os.Getenv("DATABASE_URL") == "" {
		log.Println("DATABASE_URL not set, using in-memory store")
		return store.NewMemory(game.DefaultCategories()), nil
	}

	conn, err := db.Open()
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)

	if err := db.Migrate(conn); err != nil {
		return nil, err
	}
	return store.NewPostgres(conn), nil
}
