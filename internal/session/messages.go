package session

import "github.com/rmcsgame/raja-mantri-backend/internal/engine"

type Msg interface{ isSessionMsg() }

// FromClient carries one engine command on behalf of a player. SenderID is
// who gets the ERROR reply if the command is rejected; it may be empty for
// internally generated commands.
type FromClient struct {
	SenderID string
	Cmd      engine.Command
}

func (FromClient) isSessionMsg() {}

// GetState asks the actor for a consistent copy of its state.
type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// timerFired is posted by a phase timer. It records the phase and round the
// timer was armed for so a stale fire can be detected and dropped.
type timerFired struct {
	phase engine.Phase
	round int
}

func (timerFired) isSessionMsg() {}

type View struct {
	Version int
	State   engine.State
}
