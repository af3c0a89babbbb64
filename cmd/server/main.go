package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"resume-chat-backend/internal/config"
	"resume-chat-backend/internal/handlers"
	"resume-chat-backend/internal/router"
	"resume-chat-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Resume Chat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")
	if cfg.ServerKeyRoute {
		log.Println("✓ Server key route enabled (POST /)")
	}

	// ──── Step 2: Initialize Gemini Gateway ────
	var clientOpts []option.ClientOption
	if cfg.GeminiEndpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.GeminiEndpoint))
		log.Printf("✓ Gemini endpoint override: %s", cfg.GeminiEndpoint)
	}
	geminiService := services.NewGeminiService(services.GeminiOptions{
		ValidateModel: cfg.GeminiValidateModel,
		GenerateModel: cfg.GeminiGenerateModel,
		ProbeMessage:  cfg.GeminiProbeMessage,
		Temperature:   cfg.GeminiTemperature,
		Timeout:       cfg.GeminiTimeout,
		StrictRoles:   cfg.StrictRoles,
		ClientOptions: clientOpts,
	})
	log.Printf("✓ Gemini gateway ready (validate=%s, generate=%s)", cfg.GeminiValidateModel, cfg.GeminiGenerateModel)

	// ──── Step 3: Initialize Handlers ────
	keyHandler := handlers.NewKeyHandler(geminiService)
	chatHandler := handlers.NewChatHandler(geminiService, cfg.MaxBodyBytes)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(keyHandler, chatHandler, router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		ServerKeyRoute: cfg.ServerKeyRoute,
		ServerKey:      cfg.GeminiAPIKey,
	})
	log.Printf("✓ CORS origins: %s", strings.Join(cfg.AllowedOrigins, ", "))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Resume Chat Backend ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
