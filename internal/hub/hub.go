package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rmcsgame/raja-mantri-backend/internal/engine"
	"github.com/rmcsgame/raja-mantri-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

// EnsureSession returns the session for a game id, creating it on first use.
type EnsureSession struct {
	GameID string
	Reply  chan *session.Session
}

type GetSession struct {
	GameID string
	Reply  chan *session.Session
}

// FindByPlayer scans every session's roster for a player id. Used on
// reconnect, when the client only knows who it is, not where it was.
type FindByPlayer struct {
	PlayerID string
	Reply    chan *session.Session
}

type RemoveSession struct{ GameID string }

type ShutdownHub struct{}

func (EnsureSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (FindByPlayer) isHubMsg()  {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Options fix the shape of every session this hub creates.
type Options struct {
	TotalRounds int
	MaxPlayers  int
	Delays      session.Delays
}

// Hub is the actor owning the gameId -> session map. Sessions are created on
// first reference and live for the process lifetime unless removed.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	sender   session.Sender
	opts     Options
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, sender session.Sender, opts Options, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		sender:   sender,
		opts:     opts,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureSession:
				msg.Reply <- h.ensure(msg.GameID)

			case GetSession:
				msg.Reply <- h.sessions[msg.GameID] // may be nil

			case FindByPlayer:
				msg.Reply <- h.findByPlayer(msg.PlayerID)

			case RemoveSession:
				if sess := h.sessions[msg.GameID]; sess != nil {
					sess.Inbox() <- session.Shutdown{}
				}
				delete(h.sessions, msg.GameID)

			case ShutdownHub:
				for _, sess := range h.sessions {
					sess.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) ensure(gameID string) *session.Session {
	if sess := h.sessions[gameID]; sess != nil {
		return sess
	}
	state := engine.NewState(gameID, h.opts.TotalRounds, h.opts.MaxPlayers)
	sess := session.New(h.ctx, state, h.sender, h.opts.Delays,
		h.log.With(zap.String("game_id", gameID)))
	h.sessions[gameID] = sess
	h.log.Info("session created", zap.String("game_id", gameID))
	return sess
}

func (h *Hub) findByPlayer(playerID string) *session.Session {
	for _, sess := range h.sessions {
		reply := make(chan session.View, 1)
		// Both legs time out: a wedged session with a full inbox must not
		// stall the whole hub.
		select {
		case sess.Inbox() <- session.GetState{Reply: reply}:
		case <-time.After(time.Second):
			continue
		}
		select {
		case view := <-reply:
			for _, p := range view.State.Players {
				if p.ID == playerID {
					return sess
				}
			}
		case <-time.After(time.Second):
		}
	}
	return nil
}
