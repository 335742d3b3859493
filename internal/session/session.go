package session

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/rmcsgame/raja-mantri-backend/internal/engine"
	"github.com/rmcsgame/raja-mantri-backend/internal/types"
)

// Sender delivers an encoded message to one player. The connection registry
// satisfies this; it swallows sends to unknown or disconnected players.
type Sender interface {
	Send(playerID string, data []byte) error
}

// Delays are the pauses between automatic phase transitions.
type Delays struct {
	Assign   time.Duration // assigning-roles -> revealing-roles
	Reveal   time.Duration // revealing-roles -> making-guess
	RoundEnd time.Duration // round-end -> next round or game-end
}

func DefaultDelays() Delays {
	return Delays{
		Assign:   2 * time.Second,
		Reveal:   5 * time.Second,
		RoundEnd: 5 * time.Second,
	}
}

// Session is the actor owning one game. Every mutation — joins, readiness,
// guesses, timer fires — is a message through the inbox, so state access is
// serialized without locks. Each committed mutation broadcasts the full
// snapshot to the roster.
type Session struct {
	inbox   chan Msg
	state   engine.State
	version int
	sender  Sender
	delays  Delays
	rng     *rand.Rand
	log     *zap.Logger
	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, initial engine.State, sender Sender, delays Delays, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:  make(chan Msg, 64),
		state:  initial,
		sender: sender,
		delays: delays,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.stopTimer()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case FromClient:
				s.apply(msg.SenderID, msg.Cmd)

			case timerFired:
				if s.state.Phase != msg.phase || s.state.Round != msg.round {
					s.log.Debug("dropping stale phase timer",
						zap.String("armed_phase", string(msg.phase)),
						zap.Int("armed_round", msg.round),
						zap.String("phase", string(s.state.Phase)))
					break
				}
				s.autoAdvance()

			case GetState:
				msg.Reply <- View{Version: s.version, State: s.state}

			case Shutdown:
				s.stopTimer()
				s.cancel()
				return
			}
		}
	}
}

// apply runs one command through the engine. Rejections leave the state
// untouched, trigger no broadcast, and answer only the offending sender with
// an ERROR envelope.
func (s *Session) apply(senderID string, cmd engine.Command) {
	events, newState, err := engine.Apply(s.state, cmd)
	if err != nil {
		s.log.Info("rejected command",
			zap.String("cmd", string(cmd.Type)),
			zap.String("sender", senderID),
			zap.Error(err))
		if senderID != "" {
			s.sendError(senderID, err.Error())
		}
		return
	}

	prevPhase := s.state.Phase
	s.state = newState
	s.version++

	for _, e := range events {
		s.log.Info("event",
			zap.String("event", string(e.Type)),
			zap.String("player", e.PlayerID),
			zap.Int("round", s.state.Round),
			zap.String("phase", string(s.state.Phase)))
	}

	s.broadcast()

	if s.state.Phase != prevPhase {
		s.armTimer()
	}
}

// autoAdvance performs the scheduled transition for the current phase.
func (s *Session) autoAdvance() {
	var cmd engine.Command
	switch s.state.Phase {
	case engine.PhaseAssigningRoles:
		cmd = engine.Command{Type: engine.CmdAssignRoles, Roles: engine.ShuffledDeal(s.rng)}
	case engine.PhaseRevealingRoles:
		cmd = engine.Command{Type: engine.CmdBeginGuessing}
	case engine.PhaseRoundEnd:
		cmd = engine.Command{Type: engine.CmdAdvanceRound}
	default:
		return
	}
	s.apply("", cmd)
}

// armTimer schedules the auto-transition for the phase just entered. The
// fire carries the (phase, round) it was armed for; the loop re-validates
// both, so a timer racing a faster transition is a no-op.
func (s *Session) armTimer() {
	s.stopTimer()

	var d time.Duration
	switch s.state.Phase {
	case engine.PhaseAssigningRoles:
		d = s.delays.Assign
	case engine.PhaseRevealingRoles:
		d = s.delays.Reveal
	case engine.PhaseRoundEnd:
		d = s.delays.RoundEnd
	default:
		return
	}

	fired := timerFired{phase: s.state.Phase, round: s.state.Round}
	s.timer = time.AfterFunc(d, func() {
		select {
		case s.inbox <- fired:
		case <-s.ctx.Done():
		}
	})
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// broadcast fans the current snapshot out to every player on the roster.
// The registry suppresses disconnected recipients; a failed delivery is
// logged and never blocks the rest.
func (s *Session) broadcast() {
	data, err := json.Marshal(types.ServerMessage{Type: types.MsgGameState, Payload: s.state})
	if err != nil {
		s.log.Error("marshal snapshot", zap.Error(err))
		return
	}
	for _, p := range s.state.Players {
		if err := s.sender.Send(p.ID, data); err != nil {
			s.log.Warn("snapshot delivery failed",
				zap.String("player", p.ID), zap.Error(err))
		}
	}
}

func (s *Session) sendError(playerID, message string) {
	data, err := json.Marshal(types.ServerMessage{
		Type:    types.MsgError,
		Payload: types.ErrorPayload{Message: message},
	})
	if err != nil {
		return
	}
	_ = s.sender.Send(playerID, data)
}
