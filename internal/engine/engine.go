package engine

import "errors"

var ErrWrongPhase = errors.New("action not valid in current phase")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrUnknownTarget = errors.New("unknown target player")
var ErrNotSipahi = errors.New("only the Sipahi may guess")
var ErrSessionFull = errors.New("session is full")
var ErrPlayersNotReady = errors.New("not all players are ready")
var ErrWrongPlayerCount = errors.New("wrong number of players")
var ErrBadRoleDeal = errors.New("role deal must contain each role once")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseWaiting        Phase = "waiting"
	PhaseAssigningRoles Phase = "assigning-roles"
	PhaseRevealingRoles Phase = "revealing-roles"
	PhaseMakingGuess    Phase = "making-guess"
	PhaseRoundEnd       Phase = "round-end"
	PhaseGameEnd        Phase = "game-end"
)

type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        Role   `json:"role,omitempty"`
	Score       int    `json:"score"`
	IsReady     bool   `json:"isReady"`
	IsConnected bool   `json:"isConnected"`
}

// State is the full per-session snapshot; it marshals directly into the
// GAME_STATE payload. Players are kept in join order and index 0 is the host.
type State struct {
	GameID      string   `json:"gameId"`
	Round       int      `json:"round"`
	TotalRounds int      `json:"totalRounds"`
	Phase       Phase    `json:"status"`
	Players     []Player `json:"players"`
	Winner      *Player  `json:"winner,omitempty"`

	// MaxPlayers is the table size the game is played at. Not part of the
	// snapshot; roles are only guaranteed unique when the table is full.
	MaxPlayers int `json:"-"`
}

func NewState(gameID string, totalRounds, maxPlayers int) State {
	return State{
		GameID:      gameID,
		Round:       1,
		TotalRounds: totalRounds,
		Phase:       PhaseWaiting,
		Players:     []Player{},
		MaxPlayers:  maxPlayers,
	}
}

type CommandType string

const (
	CmdJoin          CommandType = "Join"
	CmdSetReady      CommandType = "SetReady"
	CmdStartGame     CommandType = "StartGame"
	CmdAssignRoles   CommandType = "AssignRoles"
	CmdBeginGuessing CommandType = "BeginGuessing"
	CmdMakeGuess     CommandType = "MakeGuess"
	CmdAdvanceRound  CommandType = "AdvanceRound"
	CmdSetConnected  CommandType = "SetConnected"
)

type Command struct {
	Type      CommandType
	PlayerID  string
	Name      string
	Ready     bool
	Connected bool
	TargetID  string
	Roles     []Role // pre-shuffled deal, only for CmdAssignRoles
}

type EventType string

const (
	EvtPlayerJoined      EventType = "PlayerJoined"
	EvtPlayerRejoined    EventType = "PlayerRejoined"
	EvtReadySet          EventType = "ReadySet"
	EvtGameStarted       EventType = "GameStarted"
	EvtRolesAssigned     EventType = "RolesAssigned"
	EvtGuessingStarted   EventType = "GuessingStarted"
	EvtGuessResolved     EventType = "GuessResolved"
	EvtRoundAdvanced     EventType = "RoundAdvanced"
	EvtGameEnded         EventType = "GameEnded"
	EvtConnectionChanged EventType = "ConnectionChanged"
)

type Event struct {
	Type     EventType
	PlayerID string
	TargetID string
	Correct  bool
	Round    int
}

// Apply runs one command against a state and returns the events it produced
// plus the new state. The input state is never mutated; on error it is
// returned unchanged so callers can drop rejected commands wholesale.
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdJoin:
		return applyJoin(s, cmd)

	case CmdSetReady:
		if s.Phase != PhaseWaiting {
			return nil, s, ErrWrongPhase
		}
		i := playerIndex(s, cmd.PlayerID)
		if i < 0 {
			return nil, s, ErrUnknownPlayer
		}
		ns := clone(s)
		ns.Players[i].IsReady = cmd.Ready
		return []Event{{Type: EvtReadySet, PlayerID: cmd.PlayerID}}, ns, nil

	case CmdStartGame:
		if s.Phase != PhaseWaiting {
			return nil, s, ErrWrongPhase
		}
		if len(s.Players) != s.MaxPlayers {
			return nil, s, ErrWrongPlayerCount
		}
		for _, p := range s.Players {
			if !p.IsReady {
				return nil, s, ErrPlayersNotReady
			}
		}
		ns := clone(s)
		ns.Phase = PhaseAssigningRoles
		return []Event{{Type: EvtGameStarted, Round: ns.Round}}, ns, nil

	case CmdAssignRoles:
		if s.Phase != PhaseAssigningRoles {
			return nil, s, ErrWrongPhase
		}
		if !validDeal(cmd.Roles) {
			return nil, s, ErrBadRoleDeal
		}
		ns := clone(s)
		for i := range ns.Players {
			ns.Players[i].Role = cmd.Roles[i%len(cmd.Roles)]
		}
		ns.Phase = PhaseRevealingRoles
		return []Event{{Type: EvtRolesAssigned, Round: ns.Round}}, ns, nil

	case CmdBeginGuessing:
		if s.Phase != PhaseRevealingRoles {
			return nil, s, ErrWrongPhase
		}
		ns := clone(s)
		ns.Phase = PhaseMakingGuess
		return []Event{{Type: EvtGuessingStarted, Round: ns.Round}}, ns, nil

	case CmdMakeGuess:
		return applyGuess(s, cmd)

	case CmdAdvanceRound:
		return applyAdvance(s)

	case CmdSetConnected:
		i := playerIndex(s, cmd.PlayerID)
		if i < 0 {
			return nil, s, ErrUnknownPlayer
		}
		ns := clone(s)
		ns.Players[i].IsConnected = cmd.Connected
		return []Event{{Type: EvtConnectionChanged, PlayerID: cmd.PlayerID}}, ns, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyJoin(s State, cmd Command) ([]Event, State, error) {
	ns := clone(s)
	if i := playerIndex(s, cmd.PlayerID); i >= 0 {
		// Returning player: refresh name, mark connected, never duplicate.
		if cmd.Name != "" {
			ns.Players[i].Name = cmd.Name
		}
		ns.Players[i].IsConnected = true
		return []Event{{Type: EvtPlayerRejoined, PlayerID: cmd.PlayerID}}, ns, nil
	}
	if len(s.Players) >= s.MaxPlayers {
		return nil, s, ErrSessionFull
	}
	ns.Players = append(ns.Players, Player{
		ID:          cmd.PlayerID,
		Name:        cmd.Name,
		IsConnected: true,
	})
	return []Event{{Type: EvtPlayerJoined, PlayerID: cmd.PlayerID}}, ns, nil
}

func applyGuess(s State, cmd Command) ([]Event, State, error) {
	if s.Phase != PhaseMakingGuess {
		return nil, s, ErrWrongPhase
	}
	gi := playerIndex(s, cmd.PlayerID)
	if gi < 0 {
		return nil, s, ErrUnknownPlayer
	}
	if s.Players[gi].Role != RoleSipahi {
		return nil, s, ErrNotSipahi
	}
	ti := playerIndex(s, cmd.TargetID)
	if ti < 0 {
		return nil, s, ErrUnknownTarget
	}

	correct := s.Players[ti].Role == RoleChor

	ns := clone(s)
	for i := range ns.Players {
		ns.Players[i].Score += roundDelta(ns.Players[i].Role, correct)
	}
	ns.Phase = PhaseRoundEnd
	ns.Winner = leader(ns.Players)
	return []Event{{
		Type:     EvtGuessResolved,
		PlayerID: cmd.PlayerID,
		TargetID: cmd.TargetID,
		Correct:  correct,
		Round:    ns.Round,
	}}, ns, nil
}

func applyAdvance(s State) ([]Event, State, error) {
	if s.Phase != PhaseRoundEnd {
		return nil, s, ErrWrongPhase
	}
	ns := clone(s)
	if ns.Round < ns.TotalRounds {
		ns.Round++
		ns.Phase = PhaseAssigningRoles
		return []Event{{Type: EvtRoundAdvanced, Round: ns.Round}}, ns, nil
	}
	ns.Phase = PhaseGameEnd
	ns.Winner = leader(ns.Players)
	return []Event{{Type: EvtGameEnded, Round: ns.Round}}, ns, nil
}

// roundDelta is the score a role earns for one resolved guess. A correct
// guess pays every role its own points; a wrong one swaps the Chor and
// Sipahi payouts. Either way the round hands out the same 2700 total.
func roundDelta(r Role, correct bool) int {
	if correct {
		return r.Points()
	}
	switch r {
	case RoleChor:
		return RoleSipahi.Points()
	case RoleSipahi:
		return 0
	default:
		return r.Points()
	}
}

// leader picks the strict-max scorer; ties go to the earliest join.
func leader(players []Player) *Player {
	var best *Player
	for i := range players {
		if best == nil || players[i].Score > best.Score {
			best = &players[i]
		}
	}
	if best == nil {
		return nil
	}
	w := *best
	return &w
}

func playerIndex(s State, id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

func validDeal(roles []Role) bool {
	if len(roles) != len(AllRoles) {
		return false
	}
	seen := map[Role]bool{}
	for _, r := range roles {
		if !r.Valid() || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

func clone(s State) State {
	ns := s
	ns.Players = append([]Player(nil), s.Players...)
	if s.Winner != nil {
		w := *s.Winner
		ns.Winner = &w
	}
	return ns
}
