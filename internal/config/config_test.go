package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 7, cfg.TotalRounds)
	require.Equal(t, 4, cfg.MaxPlayers)
	require.Equal(t, 2*time.Second, cfg.Delays.Assign)
	require.Equal(t, 5*time.Second, cfg.Delays.Reveal)
	require.Equal(t, 5*time.Second, cfg.Delays.RoundEnd)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("TOTAL_ROUNDS", "3")
	t.Setenv("ASSIGN_DELAY", "10ms")

	cfg := Load()
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, 3, cfg.TotalRounds)
	require.Equal(t, 10*time.Millisecond, cfg.Delays.Assign)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("TOTAL_ROUNDS", "many")
	t.Setenv("REVEAL_DELAY", "soon")

	cfg := Load()
	require.Equal(t, 7, cfg.TotalRounds)
	require.Equal(t, 5*time.Second, cfg.Delays.Reveal)
}
