package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/rmcsgame/raja-mantri-backend/internal/hub"
	"github.com/rmcsgame/raja-mantri-backend/internal/registry"
	"github.com/rmcsgame/raja-mantri-backend/internal/session"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	reg := registry.New()
	h := hub.NewHub(ctx, reg, hub.Options{
		TotalRounds: 7,
		MaxPlayers:  4,
		Delays:      session.DefaultDelays(),
	}, zap.NewNop())
	return SetupRoutes(h, reg, zap.NewNop())
}

func TestCreateGame_ReturnsCode(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/games", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d", rec.Code)
	}
	var body struct {
		GameID string `json:"gameId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(body.GameID) != 6 {
		t.Fatalf("want a 6-char game code, got %q", body.GameID)
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

func TestGenerateCode(t *testing.T) {
	a, err := GenerateCode()
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateCode()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 6 || len(b) != 6 {
		t.Fatalf("codes must be 6 chars: %q %q", a, b)
	}
}
