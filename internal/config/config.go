package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/rmcsgame/raja-mantri-backend/internal/session"
)

// Config is everything the process needs from the environment. Values come
// from env vars (optionally a .env file) with game-rule defaults matching
// the classic table: 4 players, 7 rounds, 2s/5s/5s phase pauses.
type Config struct {
	Addr        string
	TotalRounds int
	MaxPlayers  int
	Delays      session.Delays
}

// Load reads a .env file if present, then the environment. A missing .env is
// not an error; every value has a default.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        envStr("ADDR", ":8080"),
		TotalRounds: envInt("TOTAL_ROUNDS", 7),
		MaxPlayers:  envInt("MAX_PLAYERS", 4),
		Delays: session.Delays{
			Assign:   envDur("ASSIGN_DELAY", 2*time.Second),
			Reveal:   envDur("REVEAL_DELAY", 5*time.Second),
			RoundEnd: envDur("ROUND_END_DELAY", 5*time.Second),
		},
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
