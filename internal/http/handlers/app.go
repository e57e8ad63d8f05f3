package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/chat"
)

// Generator produces complete outfit sets from an intake.
type Generator interface {
	Assemble(ctx context.Context, intake domain.Intake, outfitsCount int) (*domain.GenerationResult, error)
}

// ChatProvider answers a free-text message given the prior turns.
type ChatProvider interface {
	Reply(ctx context.Context, history []chat.Turn, message string) (string, error)
}

// App bundles the handler dependencies.
type App struct {
	Generator Generator
	Chat      ChatProvider
	Logger    infra.Logger

	HasSerpAPI bool
	AppEnv     string
	Version    string
}

// NewApp builds the handler container.
func NewApp(generator Generator, chatProvider ChatProvider, logger infra.Logger, hasSerpAPI bool, appEnv, version string) *App {
	return &App{
		Generator:  generator,
		Chat:       chatProvider,
		Logger:     logger,
		HasSerpAPI: hasSerpAPI,
		AppEnv:     appEnv,
		Version:    version,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}
