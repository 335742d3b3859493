package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rmcsgame/raja-mantri-backend/internal/engine"
	"github.com/rmcsgame/raja-mantri-backend/internal/hub"
	"github.com/rmcsgame/raja-mantri-backend/internal/registry"
	"github.com/rmcsgame/raja-mantri-backend/internal/session"
	"github.com/rmcsgame/raja-mantri-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// connHandle adapts one websocket to the registry's Handle. The session
// actor and the router both write through it, so writes are serialized.
type connHandle struct {
	mu   sync.Mutex
	conn *websocket.Conn
	ctx  context.Context
}

func (c *connHandle) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// Handler upgrades the connection, registers the client's identity, and runs
// the read loop that routes envelopes into sessions.
//
// Identity is the playerId query parameter; a first-time client without one
// is issued a UUID in a WELCOME message and must present it on reconnect.
func Handler(h *hub.Hub, reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("playerId")
		issued := playerID == ""
		if issued {
			playerID = uuid.NewString()
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		log := log.With(zap.String("player", playerID))
		handle := &connHandle{conn: conn, ctx: context.WithoutCancel(r.Context())}

		known := reg.Register(playerID, handle)
		defer func() {
			// A reconnect may have replaced this handle while the read
			// above was blocked; a stale teardown must not mark the live
			// connection disconnected.
			if reg.Deregister(playerID, handle) {
				setConnected(h, playerID, false)
			}
		}()

		if issued {
			welcome, _ := json.Marshal(types.ServerMessage{
				Type:    types.MsgWelcome,
				Payload: types.WelcomePayload{PlayerID: playerID},
			})
			_ = handle.Send(welcome)
		}

		// Returning id: flip the roster flag, which rebroadcasts and gets
		// this client its snapshot without a fresh JOIN_GAME.
		if known {
			setConnected(h, playerID, true)
		}

		for {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Warn("dropping malformed envelope", zap.Error(err))
				continue
			}
			dispatch(h, reg, log, playerID, handle, cm)
		}
	}
}

// dispatch routes one decoded envelope. Unknown types and unparseable
// payloads are logged and dropped; actions against missing sessions are
// ignored. Policy checks live in the engine, which answers the sender
// directly with an ERROR.
func dispatch(h *hub.Hub, reg *registry.Registry, log *zap.Logger, playerID string, handle registry.Handle, cm types.ClientMessage) {
	switch cm.Type {
	case types.MsgJoinGame:
		var p types.JoinGamePayload
		if err := json.Unmarshal(cm.Payload, &p); err != nil {
			log.Warn("dropping bad JOIN_GAME payload", zap.Error(err))
			return
		}
		gameID := p.GameID
		if gameID == "" {
			gameID = cm.GameID
		}
		if gameID == "" {
			log.Warn("dropping JOIN_GAME without game id")
			return
		}
		// Re-arms delivery for a player who sent LEAVE_GAME on this socket.
		reg.Register(playerID, handle)
		sess := ensureSession(h, gameID)
		sess.Inbox() <- session.FromClient{SenderID: playerID, Cmd: engine.Command{
			Type:     engine.CmdJoin,
			PlayerID: playerID,
			Name:     p.PlayerName,
		}}

	case types.MsgPlayerReady:
		var p types.ReadyPayload
		if err := json.Unmarshal(cm.Payload, &p); err != nil {
			log.Warn("dropping bad PLAYER_READY payload", zap.Error(err))
			return
		}
		toSession(h, cm.GameID, session.FromClient{SenderID: playerID, Cmd: engine.Command{
			Type:     engine.CmdSetReady,
			PlayerID: playerID,
			Ready:    p.Ready,
		}})

	case types.MsgStartGame:
		toSession(h, cm.GameID, session.FromClient{SenderID: playerID, Cmd: engine.Command{
			Type: engine.CmdStartGame,
		}})

	case types.MsgMakeGuess:
		var p types.GuessPayload
		if err := json.Unmarshal(cm.Payload, &p); err != nil {
			log.Warn("dropping bad MAKE_GUESS payload", zap.Error(err))
			return
		}
		toSession(h, cm.GameID, session.FromClient{SenderID: playerID, Cmd: engine.Command{
			Type:     engine.CmdMakeGuess,
			PlayerID: playerID,
			TargetID: p.TargetPlayerID,
		}})

	case types.MsgLeaveGame:
		// Reserved: the player steps away but keeps their seat. Registry
		// liveness and the roster flag drop together so delivery stops for
		// exactly as long as the roster shows them gone.
		if reg.Deregister(playerID, handle) {
			toSession(h, cm.GameID, session.FromClient{SenderID: playerID, Cmd: engine.Command{
				Type:      engine.CmdSetConnected,
				PlayerID:  playerID,
				Connected: false,
			}})
		}

	default:
		log.Warn("dropping unknown message type", zap.String("type", cm.Type))
	}
}

func ensureSession(h *hub.Hub, gameID string) *session.Session {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.EnsureSession{GameID: gameID, Reply: reply}
	return <-reply
}

func toSession(h *hub.Hub, gameID string, msg session.FromClient) {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{GameID: gameID, Reply: reply}
	sess := <-reply
	if sess == nil {
		return
	}
	sess.Inbox() <- msg
}

// setConnected propagates a registry liveness change into whichever session
// owns the player, which in turn rebroadcasts the snapshot.
func setConnected(h *hub.Hub, playerID string, connected bool) {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.FindByPlayer{PlayerID: playerID, Reply: reply}
	sess := <-reply
	if sess == nil {
		return
	}
	sess.Inbox() <- session.FromClient{Cmd: engine.Command{
		Type:      engine.CmdSetConnected,
		PlayerID:  playerID,
		Connected: connected,
	}}
}
