package types

import "encoding/json"

// Client -> server message types.
const (
	MsgJoinGame    = "JOIN_GAME"
	MsgLeaveGame   = "LEAVE_GAME"
	MsgPlayerReady = "PLAYER_READY"
	MsgStartGame   = "START_GAME"
	MsgMakeGuess   = "MAKE_GUESS"
)

// Server -> client message types.
const (
	MsgGameState = "GAME_STATE"
	MsgError     = "ERROR"
	MsgWelcome   = "WELCOME"
)

type ClientMessage struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	GameID   string          `json:"gameId,omitempty"`
	PlayerID string          `json:"playerId,omitempty"`
}

type JoinGamePayload struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
	IsCreator  bool   `json:"isCreator,omitempty"`
}

type ReadyPayload struct {
	Ready bool `json:"ready"`
}

type GuessPayload struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type WelcomePayload struct {
	PlayerID string `json:"playerId"`
}
