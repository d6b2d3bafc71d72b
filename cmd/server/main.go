package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/qtrix/the-final-stake/internal/archive"
	"github.com/qtrix/the-final-stake/internal/config"
	"github.com/qtrix/the-final-stake/internal/db"
	"github.com/qtrix/the-final-stake/internal/game"
	"github.com/qtrix/the-final-stake/internal/keeper"
	"github.com/qtrix/the-final-stake/internal/server"

	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var conn *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		conn, err = db.Open(cfg)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
	} else {
		log.Printf("DATABASE_URL is not set, state is kept in memory only")
	}

	engine := game.NewEngine(game.NewStore(), time.Now)
	srv := server.New(engine, conn, cfg)
	if err := srv.Bootstrap(ctx); err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}

	if cfg.ArchiveEnabled() {
		client, err := archive.NewS3Client(ctx, cfg)
		if err != nil {
			log.Fatalf("archive setup failed: %v", err)
		}
		engine.Subscribe(archive.New(client, engine, cfg.ArchiveBucket, cfg.ArchivePrefix).Handle)
		log.Printf("settlement reports archived bucket=%s prefix=%s", cfg.ArchiveBucket, cfg.ArchivePrefix)
	}

	if cfg.KeeperEnabled {
		k := keeper.New(engine, cfg.KeeperID)
		if err := k.Start(cfg.KeeperInterval()); err != nil {
			log.Fatalf("keeper start failed: %v", err)
		}
		defer func() {
			if err := k.Stop(); err != nil {
				log.Printf("keeper stop failed: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown failed: %v", err)
		}
	}()

	log.Printf("the-final-stake server listening on %s", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
