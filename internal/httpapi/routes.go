package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rmcsgame/raja-mantri-backend/internal/hub"
	"github.com/rmcsgame/raja-mantri-backend/internal/registry"
	"github.com/rmcsgame/raja-mantri-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, reg *registry.Registry, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/games", CreateGame(h))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, reg, log))
	return r
}
