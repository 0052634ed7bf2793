package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/adapters/memory"
	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/internal/playback"
)

func newTestPlayer(t *testing.T, repo *memory.SessionRepository) *Player {
	t.Helper()
	clock := newRemoteClock()
	return &Player{
		hub:    NewHub(repo, zap.NewNop()),
		send:   make(chan []byte, 16),
		userID: "user-1",
		logger: zap.NewNop(),
		clock:  clock,
		engine: playback.NewEngine(clock),
	}
}

func seedSession(t *testing.T, repo *memory.SessionRepository, userID string) *entities.StudySession {
	t.Helper()
	session := entities.NewStudySession(userID, "interview", "en-US", entities.TurnPolicy(1))
	session.SetSegments([]entities.Segment{
		{ID: "seg-0", Start: 0, End: 10, Text: "hello there", Speaker: 1},
		{ID: "seg-1", Start: 10, End: 20, Text: "general remarks", Speaker: 2},
	}, entities.TranscriptSourceRemote)
	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return session
}

func readSync(t *testing.T, p *Player) *SyncStateMessage {
	t.Helper()
	select {
	case payload := <-p.send:
		var msg SyncStateMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("failed to decode outbound message: %v", err)
		}
		if msg.Type != MessageTypeSyncState {
			t.Fatalf("expected sync_state, got %s: %s", msg.Type, payload)
		}
		return &msg
	default:
		t.Fatal("no outbound message queued")
		return nil
	}
}

func readError(t *testing.T, p *Player) *ErrorMessage {
	t.Helper()
	select {
	case payload := <-p.send:
		var msg ErrorMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("failed to decode outbound message: %v", err)
		}
		if msg.Type != MessageTypeError {
			t.Fatalf("expected error, got %s: %s", msg.Type, payload)
		}
		return &msg
	default:
		t.Fatal("no outbound message queued")
		return nil
	}
}

func TestPlayerLoadSession(t *testing.T) {
	repo := memory.NewSessionRepository()
	session := seedSession(t, repo, "user-1")
	player := newTestPlayer(t, repo)

	player.processMessage([]byte(`{"type": "load_session", "session_id": "` + session.ID + `"}`))

	sync := readSync(t, player)
	if sync.SessionID != session.ID {
		t.Errorf("SessionID = %q, want %q", sync.SessionID, session.ID)
	}
	if sync.ActiveSegment != 0 {
		t.Errorf("ActiveSegment = %d, want 0", sync.ActiveSegment)
	}
	if sync.Speed != 1.0 {
		t.Errorf("Speed = %v, want 1.0", sync.Speed)
	}
}

func TestPlayerLoadSessionNotFound(t *testing.T) {
	repo := memory.NewSessionRepository()
	player := newTestPlayer(t, repo)

	player.processMessage([]byte(`{"type": "load_session", "session_id": "nope"}`))

	errMsg := readError(t, player)
	if errMsg.Code != "not_found" {
		t.Errorf("Code = %q, want %q", errMsg.Code, "not_found")
	}
}

func TestPlayerLoadSessionWrongOwner(t *testing.T) {
	repo := memory.NewSessionRepository()
	session := seedSession(t, repo, "somebody-else")
	player := newTestPlayer(t, repo)

	player.processMessage([]byte(`{"type": "load_session", "session_id": "` + session.ID + `"}`))

	errMsg := readError(t, player)
	if errMsg.Code != "not_found" {
		t.Errorf("Code = %q, want %q", errMsg.Code, "not_found")
	}
}

func TestPlayerTickAdvancesSegment(t *testing.T) {
	repo := memory.NewSessionRepository()
	session := seedSession(t, repo, "user-1")
	player := newTestPlayer(t, repo)

	player.processMessage([]byte(`{"type": "load_session", "session_id": "` + session.ID + `"}`))
	<-player.send

	player.processMessage([]byte(`{"type": "tick", "current_time": 12.0}`))

	sync := readSync(t, player)
	if sync.ActiveSegment != 1 {
		t.Errorf("ActiveSegment = %d, want 1", sync.ActiveSegment)
	}
}

func TestPlayerJumpQueuesSeek(t *testing.T) {
	repo := memory.NewSessionRepository()
	session := seedSession(t, repo, "user-1")
	player := newTestPlayer(t, repo)

	player.processMessage([]byte(`{"type": "load_session", "session_id": "` + session.ID + `"}`))
	<-player.send

	player.processMessage([]byte(`{"type": "jump", "segment_index": 1}`))

	sync := readSync(t, player)
	if sync.ActiveSegment != 1 {
		t.Errorf("ActiveSegment = %d, want 1", sync.ActiveSegment)
	}
	if sync.SeekTo == nil || *sync.SeekTo != 10 {
		t.Errorf("SeekTo = %v, want 10", sync.SeekTo)
	}
	if !sync.Playing {
		t.Error("Playing = false after a jump")
	}
}

func TestPlayerCommandWithoutSession(t *testing.T) {
	repo := memory.NewSessionRepository()
	player := newTestPlayer(t, repo)

	player.processMessage([]byte(`{"type": "cycle_speed"}`))

	errMsg := readError(t, player)
	if errMsg.Code != "no_session" {
		t.Errorf("Code = %q, want %q", errMsg.Code, "no_session")
	}
}

func TestPlayerRejectsMalformedMessage(t *testing.T) {
	repo := memory.NewSessionRepository()
	player := newTestPlayer(t, repo)

	player.processMessage([]byte(`{"type": "loop_mode", "mode": "shuffle"}`))

	errMsg := readError(t, player)
	if errMsg.Code != "bad_message" {
		t.Errorf("Code = %q, want %q", errMsg.Code, "bad_message")
	}
}

func TestRemoteClockSeekRoundTrip(t *testing.T) {
	clock := newRemoteClock()
	if clock.Ready() {
		t.Error("clock reported ready before any position report")
	}

	clock.observe(3.5)
	if !clock.Ready() {
		t.Error("clock not ready after observe")
	}
	if clock.CurrentTime() != 3.5 {
		t.Errorf("CurrentTime() = %v, want 3.5", clock.CurrentTime())
	}

	clock.Seek(8.0)
	if clock.CurrentTime() != 8.0 {
		t.Errorf("CurrentTime() after seek = %v, want 8.0", clock.CurrentTime())
	}
	target := clock.takeSeek()
	if target == nil || *target != 8.0 {
		t.Errorf("takeSeek() = %v, want 8.0", target)
	}
	if clock.takeSeek() != nil {
		t.Error("takeSeek() did not clear the pending command")
	}
}
