package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	contactsvc "github.com/rpattn/contactsvc"
	"github.com/rpattn/contactsvc/internal/config"
	"github.com/rpattn/contactsvc/internal/contacts"
	"github.com/rpattn/contactsvc/internal/db"
	"github.com/rpattn/contactsvc/internal/ingestion"
	"github.com/rpattn/contactsvc/internal/mapping"
	"github.com/rpattn/contactsvc/internal/middleware"
	"github.com/rpattn/contactsvc/internal/repository"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Header-mapping rules are loaded once; a broken rule file refuses start.
	rules, err := mapping.LoadRules(cfg.MappingConfigPath)
	if err != nil {
		log.Fatalf("Failed to load mapping rules: %v", err)
	}
	log.WithField("rules", rules.Len()).Info("loaded header mapping rules")

	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(contactsvc.MigrationsFS, "migrations", cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	contactRepo := repository.NewContactRepository(conn)
	importService := ingestion.NewService(rules, contactRepo, log)
	contactHandler := contacts.NewHandler(contactRepo)

	mux := http.NewServeMux()
	mux.Handle("POST /contacts/upload", ingestion.NewHTTPHandler(importService))
	mux.HandleFunc("GET /contacts", contactHandler.List)
	mux.HandleFunc("GET /contacts/{id}", contactHandler.Get)
	mux.HandleFunc("POST /contacts", contactHandler.Create)
	mux.HandleFunc("PATCH /contacts/{id}", contactHandler.Update)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := middleware.Logging(log)(corsHandler.Handler(mux))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("starting contact service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}
