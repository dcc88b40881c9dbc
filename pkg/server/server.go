// Package server provides the public entry point for initializing the
// GreenMason backend.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8000", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/greenmason/greenmason/internal/api"
	"github.com/greenmason/greenmason/internal/api/handlers"
	"github.com/greenmason/greenmason/internal/config"
	"github.com/greenmason/greenmason/internal/gemini"
	"github.com/greenmason/greenmason/internal/store"
	"github.com/greenmason/greenmason/internal/telemetry"
	"github.com/greenmason/greenmason/internal/voice"
)

// Server holds the initialized GreenMason backend.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Store is the data store (MongoDB when MONGODB_URI is set,
	// in-memory otherwise).
	Store store.Store

	// Config is the loaded configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New initializes all components from environment configuration and
// returns a ready Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, config.Load())
}

// NewWithConfig initializes the backend with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	dataStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ai, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}
	log.Info().Str("model", cfg.Gemini.Model).Msg("✅ Gemini client initialized")

	speech := voice.NewClient(cfg.Voice.APIKey, cfg.Voice.VoiceID, cfg.Voice.ModelID)
	log.Info().Str("voice", cfg.Voice.VoiceID).Msg("✅ ElevenLabs client initialized")

	h := handlers.New(dataStore, ai, speech, cfg.Version)
	router := api.NewRouter(h)

	return &Server{
		Handler:      router,
		Store:        dataStore,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Database.URI == "" {
		log.Info().Msg("✅ In-memory store initialized (no MONGODB_URI set)")
		return store.NewMemoryStore(), nil
	}

	m, err := store.NewMongoStore(ctx, cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	log.Info().Str("database", cfg.Database.Name).Msg("✅ MongoDB store initialized")
	return m, nil
}
