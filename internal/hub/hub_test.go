package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rmcsgame/raja-mantri-backend/internal/engine"
	"github.com/rmcsgame/raja-mantri-backend/internal/session"
)

type noopSender struct{}

func (noopSender) Send(string, []byte) error { return nil }

func testHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, noopSender{}, Options{
		TotalRounds: 7,
		MaxPlayers:  4,
		Delays:      session.DefaultDelays(),
	}, zap.NewNop())
}

func getSession(t *testing.T, h *Hub, msg HubMsg, reply chan *session.Session) *session.Session {
	t.Helper()
	h.Inbox() <- msg
	select {
	case s := <-reply:
		return s
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for hub reply")
		return nil // unreachable
	}
}

func TestHub_Ensure_Get_SamePointer(t *testing.T) {
	h := testHub(t)
	reply := make(chan *session.Session, 1)

	s1 := getSession(t, h, EnsureSession{GameID: "ROOM42", Reply: reply}, reply)
	s2 := getSession(t, h, GetSession{GameID: "ROOM42", Reply: reply}, reply)
	s3 := getSession(t, h, EnsureSession{GameID: "ROOM42", Reply: reply}, reply)

	if s1 == nil || s1 != s2 || s1 != s3 {
		t.Fatalf("expected one session instance per game id")
	}
}

func TestHub_Get_UnknownIsNil(t *testing.T) {
	h := testHub(t)
	reply := make(chan *session.Session, 1)
	if s := getSession(t, h, GetSession{GameID: "NOPE", Reply: reply}, reply); s != nil {
		t.Fatalf("unknown game id should be nil")
	}
}

func TestHub_FindByPlayer(t *testing.T) {
	h := testHub(t)
	reply := make(chan *session.Session, 1)

	sess := getSession(t, h, EnsureSession{GameID: "ROOM42", Reply: reply}, reply)
	sess.Inbox() <- session.FromClient{SenderID: "p1", Cmd: engine.Command{
		Type: engine.CmdJoin, PlayerID: "p1", Name: "Asha",
	}}

	found := getSession(t, h, FindByPlayer{PlayerID: "p1", Reply: reply}, reply)
	if found != sess {
		t.Fatalf("expected the player's session back, got %v", found)
	}

	if s := getSession(t, h, FindByPlayer{PlayerID: "ghost", Reply: reply}, reply); s != nil {
		t.Fatalf("unknown player should not resolve to a session")
	}
}

// A session whose actor is gone and whose inbox is full must not wedge the
// hub: the scan times out past it and the hub keeps answering.
func TestHub_FindByPlayer_SkipsWedgedSession(t *testing.T) {
	h := testHub(t)
	reply := make(chan *session.Session, 1)

	sess := getSession(t, h, EnsureSession{GameID: "STUCK", Reply: reply}, reply)
	sess.Inbox() <- session.Shutdown{}
	time.Sleep(50 * time.Millisecond) // let the actor drain the shutdown and exit

	for i := 0; i < 64; i++ {
		select {
		case sess.Inbox() <- session.GetState{Reply: make(chan session.View, 1)}:
		default:
		}
	}

	h.Inbox() <- FindByPlayer{PlayerID: "ghost", Reply: reply}
	select {
	case s := <-reply:
		if s != nil {
			t.Fatalf("dead session resolved a player: %v", s)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("hub stalled scanning a wedged session")
	}

	// And the hub still serves other requests.
	if s := getSession(t, h, EnsureSession{GameID: "ALIVE", Reply: reply}, reply); s == nil {
		t.Fatalf("hub unresponsive after wedged scan")
	}
}

func TestHub_Remove(t *testing.T) {
	h := testHub(t)
	reply := make(chan *session.Session, 1)

	_ = getSession(t, h, EnsureSession{GameID: "ROOM42", Reply: reply}, reply)
	h.Inbox() <- RemoveSession{GameID: "ROOM42"}

	if s := getSession(t, h, GetSession{GameID: "ROOM42", Reply: reply}, reply); s != nil {
		t.Fatalf("removed session still resolvable")
	}
}
